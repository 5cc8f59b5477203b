package service

import (
	"context"

	"roamly/internal/microservices/http-api/models"

	"github.com/stretchr/testify/mock"
)

// Shared repository mocks for the service tests.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ReplaceFavoriteGenres(ctx context.Context, userID string, genres []string) error {
	args := m.Called(ctx, userID, genres)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) GetAll(ctx context.Context, page, pageSize int, genre, sortBy string) ([]models.Movie, int64, error) {
	args := m.Called(ctx, page, pageSize, genre, sortBy)
	return args.Get(0).([]models.Movie), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	args := m.Called(ctx, tmdbID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieRepository) SearchByTitle(ctx context.Context, query string, page, pageSize int) ([]models.Movie, int64, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]models.Movie), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovieRepository) GetFeatured(ctx context.Context) ([]models.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetMostPopular(ctx context.Context, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetTopRated(ctx context.Context, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByGenre(ctx context.Context, genre string, limit int, excludeIDs []int64) ([]models.Movie, error) {
	args := m.Called(ctx, genre, limit, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovieRepository) AverageCatalogRating(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, ratingID, movieID int64) error {
	args := m.Called(ctx, ratingID, movieID)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUserAndMovie(ctx context.Context, userID string, movieID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByMovie(ctx context.Context, movieID int64, page, pageSize int) ([]models.Rating, int64, error) {
	args := m.Called(ctx, movieID, page, pageSize)
	return args.Get(0).([]models.Rating), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockWatchlistRepository struct {
	mock.Mock
}

func (m *MockWatchlistRepository) Create(ctx context.Context, w *models.Watchlist) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWatchlistRepository) GetByID(ctx context.Context, id int64) (*models.Watchlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Watchlist), args.Error(1)
}

func (m *MockWatchlistRepository) GetByUser(ctx context.Context, userID string) ([]models.Watchlist, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Watchlist), args.Error(1)
}

func (m *MockWatchlistRepository) Update(ctx context.Context, w *models.Watchlist) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWatchlistRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWatchlistRepository) AddItem(ctx context.Context, watchlistID, movieID int64) error {
	args := m.Called(ctx, watchlistID, movieID)
	return args.Error(0)
}

func (m *MockWatchlistRepository) RemoveItem(ctx context.Context, watchlistID, movieID int64) error {
	args := m.Called(ctx, watchlistID, movieID)
	return args.Error(0)
}

func (m *MockWatchlistRepository) HasItem(ctx context.Context, watchlistID, movieID int64) (bool, error) {
	args := m.Called(ctx, watchlistID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWatchlistRepository) ListPublic(ctx context.Context, page, pageSize int) ([]models.Watchlist, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Watchlist), args.Get(1).(int64), args.Error(2)
}

func (m *MockWatchlistRepository) SearchPublic(ctx context.Context, query string, page, pageSize int) ([]models.Watchlist, int64, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]models.Watchlist), args.Get(1).(int64), args.Error(2)
}

func (m *MockWatchlistRepository) ListPopularPublic(ctx context.Context, page, pageSize int) ([]models.Watchlist, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Watchlist), args.Get(1).(int64), args.Error(2)
}

func (m *MockWatchlistRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(refreshToken *models.RefreshToken) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(tokenString string) (*models.RefreshToken, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

// MockDefaultListCache doubles as the aggregate invalidator in tests.
type MockDefaultListCache struct {
	mock.Mock
}

func (m *MockDefaultListCache) GetDefaultList(ctx context.Context) ([]models.Movie, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.Movie), args.Bool(1)
}

func (m *MockDefaultListCache) SetDefaultList(ctx context.Context, movies []models.Movie) {
	m.Called(ctx, movies)
}

func (m *MockDefaultListCache) InvalidateDefaultList(ctx context.Context) {
	m.Called(ctx)
}
