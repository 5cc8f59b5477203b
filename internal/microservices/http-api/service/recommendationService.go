package service

import (
	"context"
	"log/slog"
	"sort"

	"roamly/internal/microservices/http-api/models"
	"roamly/internal/microservices/http-api/repository"
)

const (
	// Recommendation result sources
	RecommendationPersonalized = "personalized"
	RecommendationDefault      = "default"
	RecommendationEmpty        = "empty"

	maxRecommendations = 20
	perGenreLimit      = 10

	// Minimum score for a rating to contribute its movie's genres to the
	// derived affinity set.
	affinityScoreThreshold = 7
)

// RecommendationResult carries the suggestion list together with how it was
// produced, so the fallback path is an observable branch rather than an
// error swallowed along the way.
type RecommendationResult struct {
	Source string
	Movies []models.Movie
}

// DefaultListCache is the optional cache for the non-personalized list.
type DefaultListCache interface {
	GetDefaultList(ctx context.Context) ([]models.Movie, bool)
	SetDefaultList(ctx context.Context, movies []models.Movie)
}

type RecommendationService interface {
	// Recommend never fails: any internal error downgrades the result to
	// the default popularity list, and a failing default yields an empty
	// list with Source set accordingly.
	Recommend(ctx context.Context, userID string) RecommendationResult
}

type recommendationService struct {
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	movieRepo  repository.MovieRepository
	cache      DefaultListCache
	logger     *slog.Logger
}

func NewRecommendationService(
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	movieRepo repository.MovieRepository,
	cache DefaultListCache,
	logger *slog.Logger,
) RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &recommendationService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		movieRepo:  movieRepo,
		cache:      cache,
		logger:     logger,
	}
}

func (s *recommendationService) Recommend(ctx context.Context, userID string) RecommendationResult {
	if userID == "" {
		return s.defaultList(ctx)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return s.defaultList(ctx)
	}

	ratings, err := s.ratingRepo.GetByUser(ctx, user.ID)
	if err != nil {
		s.logger.Warn("recommendation degraded: rating history unavailable",
			"user_id", user.ID, "error", err)
		return s.defaultList(ctx)
	}
	if len(ratings) == 0 {
		return s.defaultList(ctx)
	}

	ratedIDs := make(map[int64]struct{}, len(ratings))
	for i := range ratings {
		ratedIDs[ratings[i].MovieID] = struct{}{}
	}

	genres := affinityGenres(user, ratings)
	if len(genres) == 0 {
		return s.defaultList(ctx)
	}

	excludeIDs := make([]int64, 0, len(ratedIDs))
	for id := range ratedIDs {
		excludeIDs = append(excludeIDs, id)
	}

	// Candidate pool; duplicates across genres are expected and removed
	// below.
	var pool []models.Movie
	for _, genre := range genres {
		if genre == "" {
			continue
		}
		movies, err := s.movieRepo.GetByGenre(ctx, genre, perGenreLimit, excludeIDs)
		if err != nil {
			s.logger.Warn("recommendation degraded: genre lookup failed",
				"genre", genre, "error", err)
			return s.defaultList(ctx)
		}
		pool = append(pool, movies...)
	}

	if len(pool) == 0 {
		return s.defaultList(ctx)
	}

	return RecommendationResult{
		Source: RecommendationPersonalized,
		Movies: rankCandidates(pool, maxRecommendations),
	}
}

// affinityGenres picks the user's explicit favorite genres, or derives them
// from the genres of movies the user rated highly.
func affinityGenres(user *models.User, ratings []models.Rating) []string {
	if favorites := user.FavoriteGenreNames(); len(favorites) > 0 {
		return favorites
	}

	seen := make(map[string]struct{})
	var derived []string
	for i := range ratings {
		if ratings[i].Value < affinityScoreThreshold {
			continue
		}
		for _, g := range ratings[i].Movie.GenreNames() {
			if g == "" {
				continue
			}
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			derived = append(derived, g)
		}
	}
	return derived
}

// rankCandidates deduplicates the pool, orders it by aggregate rating
// descending (unrated movies last, otherwise stable) and caps the result.
func rankCandidates(pool []models.Movie, limit int) []models.Movie {
	seen := make(map[int64]struct{}, len(pool))
	unique := make([]models.Movie, 0, len(pool))
	for i := range pool {
		if _, ok := seen[pool[i].ID]; ok {
			continue
		}
		seen[pool[i].ID] = struct{}{}
		unique = append(unique, pool[i])
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Rating > unique[j].Rating
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// defaultList is the total fallback: top movies by aggregate rating then
// vote count. If even this fails the result is an empty list, never an
// error.
func (s *recommendationService) defaultList(ctx context.Context) RecommendationResult {
	if s.cache != nil {
		if movies, ok := s.cache.GetDefaultList(ctx); ok {
			return RecommendationResult{Source: RecommendationDefault, Movies: movies}
		}
	}

	movies, err := s.movieRepo.GetTopRated(ctx, maxRecommendations)
	if err != nil {
		s.logger.Error("default recommendations unavailable", "error", err)
		return RecommendationResult{Source: RecommendationEmpty, Movies: []models.Movie{}}
	}

	if s.cache != nil {
		s.cache.SetDefaultList(ctx, movies)
	}
	return RecommendationResult{Source: RecommendationDefault, Movies: movies}
}
