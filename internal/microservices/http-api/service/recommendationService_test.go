package service

import (
	"context"
	"errors"
	"testing"

	"roamly/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newRecommendationServiceForTest(cache DefaultListCache) (RecommendationService, *MockUserRepository, *MockRatingRepository, *MockMovieRepository) {
	userRepo := new(MockUserRepository)
	ratingRepo := new(MockRatingRepository)
	movieRepo := new(MockMovieRepository)
	svc := NewRecommendationService(userRepo, ratingRepo, movieRepo, cache, nil)
	return svc, userRepo, ratingRepo, movieRepo
}

func movieWithGenres(id int64, rating float64, genres ...string) models.Movie {
	tags := make([]models.MovieGenre, 0, len(genres))
	for _, g := range genres {
		tags = append(tags, models.MovieGenre{MovieID: id, Genre: g})
	}
	return models.Movie{ID: id, Title: "m", Rating: rating, Genres: tags}
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()
	topRated := []models.Movie{{ID: 100, Rating: 9.1}, {ID: 101, Rating: 8.8}}

	t.Run("anonymous caller gets the default list", func(t *testing.T) {
		svc, userRepo, _, movieRepo := newRecommendationServiceForTest(nil)
		movieRepo.On("GetTopRated", mock.Anything, maxRecommendations).Return(topRated, nil)

		result := svc.Recommend(ctx, "")

		assert.Equal(t, RecommendationDefault, result.Source)
		assert.Len(t, result.Movies, 2)
		userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user falls back to default", func(t *testing.T) {
		svc, userRepo, _, movieRepo := newRecommendationServiceForTest(nil)
		userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
		movieRepo.On("GetTopRated", mock.Anything, maxRecommendations).Return(topRated, nil)

		result := svc.Recommend(ctx, "ghost")
		assert.Equal(t, RecommendationDefault, result.Source)
	})

	t.Run("empty rating history falls back to default", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)
		userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1"}, nil)
		ratingRepo.On("GetByUser", mock.Anything, "user-1").Return([]models.Rating{}, nil)
		movieRepo.On("GetTopRated", mock.Anything, maxRecommendations).Return(topRated, nil)

		result := svc.Recommend(ctx, "user-1")
		assert.Equal(t, RecommendationDefault, result.Source)
	})

	t.Run("explicit favorite genres drive the candidate pool", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)
		user := &models.User{
			ID:             "user-1",
			FavoriteGenres: []models.UserFavoriteGenre{{Genre: "Thriller"}},
		}
		// A low score on a Comedy movie; with explicit favorites it must not
		// contribute to the affinity set.
		comedy := movieWithGenres(5, 6.0, "Comedy")
		ratings := []models.Rating{{MovieID: 5, Value: 3, Movie: comedy}}

		userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		ratingRepo.On("GetByUser", mock.Anything, "user-1").Return(ratings, nil)
		movieRepo.On("GetByGenre", mock.Anything, "Thriller", perGenreLimit, mock.Anything).
			Return([]models.Movie{movieWithGenres(10, 8.2, "Thriller")}, nil)

		result := svc.Recommend(ctx, "user-1")

		assert.Equal(t, RecommendationPersonalized, result.Source)
		assert.Len(t, result.Movies, 1)
		assert.Equal(t, int64(10), result.Movies[0].ID)
		movieRepo.AssertNotCalled(t, "GetByGenre", mock.Anything, "Comedy", mock.Anything, mock.Anything)
	})

	t.Run("affinity derived only from high scores", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)
		user := &models.User{ID: "user-1"}
		ratings := []models.Rating{
			{MovieID: 1, Value: 9, Movie: movieWithGenres(1, 8.0, "Sci-Fi")},
			{MovieID: 2, Value: 3, Movie: movieWithGenres(2, 5.0, "Horror")},
		}

		userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		ratingRepo.On("GetByUser", mock.Anything, "user-1").Return(ratings, nil)
		movieRepo.On("GetByGenre", mock.Anything, "Sci-Fi", perGenreLimit, mock.Anything).
			Return([]models.Movie{movieWithGenres(30, 7.9, "Sci-Fi")}, nil)

		result := svc.Recommend(ctx, "user-1")

		assert.Equal(t, RecommendationPersonalized, result.Source)
		movieRepo.AssertNotCalled(t, "GetByGenre", mock.Anything, "Horror", mock.Anything, mock.Anything)
	})

	t.Run("rated movies are excluded from the pool query", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)
		user := &models.User{ID: "user-1"}
		ratings := []models.Rating{{MovieID: 1, Value: 9, Movie: movieWithGenres(1, 8.0, "Sci-Fi")}}

		userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		ratingRepo.On("GetByUser", mock.Anything, "user-1").Return(ratings, nil)
		movieRepo.On("GetByGenre", mock.Anything, "Sci-Fi", perGenreLimit,
			mock.MatchedBy(func(ids []int64) bool {
				return len(ids) == 1 && ids[0] == 1
			})).Return([]models.Movie{movieWithGenres(30, 7.9, "Sci-Fi")}, nil)

		result := svc.Recommend(ctx, "user-1")
		assert.Equal(t, RecommendationPersonalized, result.Source)
		movieRepo.AssertExpectations(t)
	})

	t.Run("pool is deduplicated, ordered by rating and capped", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)
		user := &models.User{
			ID: "user-1",
			FavoriteGenres: []models.UserFavoriteGenre{
				{Genre: "Action"}, {Genre: "Drama"},
			},
		}
		ratings := []models.Rating{{MovieID: 1, Value: 8}}

		// ID 50 appears in both genres and must survive only once.
		actionPool := make([]models.Movie, 0, perGenreLimit)
		for i := int64(0); i < perGenreLimit; i++ {
			actionPool = append(actionPool, movieWithGenres(50+i, float64(9-i%3), "Action"))
		}
		dramaPool := make([]models.Movie, 0, perGenreLimit+2)
		dramaPool = append(dramaPool, movieWithGenres(50, 9.0, "Action", "Drama"))
		for i := int64(0); i < perGenreLimit+1; i++ {
			dramaPool = append(dramaPool, movieWithGenres(70+i, float64(8-i%4), "Drama"))
		}

		userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		ratingRepo.On("GetByUser", mock.Anything, "user-1").Return(ratings, nil)
		movieRepo.On("GetByGenre", mock.Anything, "Action", perGenreLimit, mock.Anything).Return(actionPool, nil)
		movieRepo.On("GetByGenre", mock.Anything, "Drama", perGenreLimit, mock.Anything).Return(dramaPool, nil)

		result := svc.Recommend(ctx, "user-1")

		assert.Equal(t, RecommendationPersonalized, result.Source)
		assert.LessOrEqual(t, len(result.Movies), maxRecommendations)

		seen := make(map[int64]int)
		for i := 1; i < len(result.Movies); i++ {
			assert.GreaterOrEqual(t, result.Movies[i-1].Rating, result.Movies[i].Rating)
		}
		for _, m := range result.Movies {
			seen[m.ID]++
			assert.Equal(t, 1, seen[m.ID])
		}
	})

	t.Run("genre lookup failure falls back to default", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)
		user := &models.User{ID: "user-1", FavoriteGenres: []models.UserFavoriteGenre{{Genre: "Action"}}}

		userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		ratingRepo.On("GetByUser", mock.Anything, "user-1").Return([]models.Rating{{MovieID: 1, Value: 8}}, nil)
		movieRepo.On("GetByGenre", mock.Anything, "Action", perGenreLimit, mock.Anything).
			Return(nil, errors.New("connection reset"))
		movieRepo.On("GetTopRated", mock.Anything, maxRecommendations).Return(topRated, nil)

		result := svc.Recommend(ctx, "user-1")
		assert.Equal(t, RecommendationDefault, result.Source)
	})

	t.Run("everything failing still returns an empty list, never an error", func(t *testing.T) {
		svc, userRepo, ratingRepo, movieRepo := newRecommendationServiceForTest(nil)

		userRepo.On("FindByID", mock.Anything, "user-1").Return(nil, errors.New("db down"))
		ratingRepo.On("GetByUser", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		movieRepo.On("GetTopRated", mock.Anything, maxRecommendations).Return(nil, errors.New("db down"))

		result := svc.Recommend(ctx, "user-1")

		assert.Equal(t, RecommendationEmpty, result.Source)
		assert.NotNil(t, result.Movies)
		assert.Empty(t, result.Movies)
	})
}

func TestRecommendDefaultListCache(t *testing.T) {
	ctx := context.Background()
	cached := []models.Movie{{ID: 1, Rating: 9.0}}

	t.Run("cache hit skips the repository", func(t *testing.T) {
		cache := new(MockDefaultListCache)
		svc, _, _, movieRepo := newRecommendationServiceForTest(cache)

		cache.On("GetDefaultList", mock.Anything).Return(cached, true)

		result := svc.Recommend(ctx, "")

		assert.Equal(t, RecommendationDefault, result.Source)
		assert.Equal(t, cached, result.Movies)
		movieRepo.AssertNotCalled(t, "GetTopRated", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		cache := new(MockDefaultListCache)
		svc, _, _, movieRepo := newRecommendationServiceForTest(cache)

		cache.On("GetDefaultList", mock.Anything).Return(nil, false)
		movieRepo.On("GetTopRated", mock.Anything, maxRecommendations).Return(cached, nil)
		cache.On("SetDefaultList", mock.Anything, cached).Return()

		result := svc.Recommend(ctx, "")

		assert.Equal(t, RecommendationDefault, result.Source)
		cache.AssertCalled(t, "SetDefaultList", mock.Anything, cached)
	})
}
