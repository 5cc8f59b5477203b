package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"roamly/internal/external/tmdb"
	"roamly/internal/external/youtube"
	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/models"
	"roamly/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// AdminService covers moderation, catalog curation and provider imports.
type AdminService interface {
	// User moderation
	ListUsers(ctx context.Context, page, pageSize int) (*dto.PaginatedUserResponse, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	BanUser(ctx context.Context, userID, reason string) error
	UnbanUser(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error

	// Catalog curation
	CreateMovie(ctx context.Context, req dto.CreateMovieDTO) (*dto.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID int64, req dto.UpdateMovieDTO) (*dto.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID int64) error
	SetFeatured(ctx context.Context, movieID int64, featured bool) (*dto.MovieResponse, error)

	// Provider imports
	SearchTmdb(ctx context.Context, query string, page int) (*dto.TmdbSearchResponse, error)
	ImportFromTmdb(ctx context.Context, tmdbID int) (*dto.MovieResponse, error)
	BulkImportPopular(ctx context.Context, pages int) (int, error)

	// Dashboard
	GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type adminService struct {
	userRepo         repository.UserRepository
	movieRepo        repository.MovieRepository
	ratingRepo       repository.RatingRepository
	watchlistRepo    repository.WatchlistRepository
	refreshTokenRepo repository.RefreshTokenRepository
	tmdbClient       *tmdb.Client
	youtubeClient    *youtube.Client
	logger           *slog.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	movieRepo repository.MovieRepository,
	ratingRepo repository.RatingRepository,
	watchlistRepo repository.WatchlistRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	tmdbClient *tmdb.Client,
	youtubeClient *youtube.Client,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		userRepo:         userRepo,
		movieRepo:        movieRepo,
		ratingRepo:       ratingRepo,
		watchlistRepo:    watchlistRepo,
		refreshTokenRepo: refreshTokenRepo,
		tmdbClient:       tmdbClient,
		youtubeClient:    youtubeClient,
		logger:           logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.FromModelToUserResponse(&users[i]))
	}

	resp := dto.NewPaginatedUserResponse(responses, page, pageSize, total)
	return &resp, nil
}

func (s *adminService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// BanUser marks the account banned and revokes all refresh tokens, so the
// session dies as soon as the current access token expires.
func (s *adminService) BanUser(ctx context.Context, userID, reason string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsBanned = true
	user.BanReason = &reason
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens for banned user",
			"user_id", userID, "error", err)
	}

	s.logger.Info("user banned", "user_id", userID, "reason", reason)
	return nil
}

func (s *adminService) UnbanUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsBanned = false
	user.BanReason = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}

	s.logger.Info("user unbanned", "user_id", userID)
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens for deleted user",
			"user_id", userID, "error", err)
	}

	return s.userRepo.Delete(ctx, userID)
}

func (s *adminService) CreateMovie(ctx context.Context, req dto.CreateMovieDTO) (*dto.MovieResponse, error) {
	if req.TmdbID != nil {
		if _, err := s.movieRepo.GetByTmdbID(ctx, *req.TmdbID); err == nil {
			return nil, ErrMovieExists
		}
	}

	movie := req.ToModel()
	if err := s.movieRepo.Create(ctx, &movie); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMovieExists
		}
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	created, err := s.movieRepo.GetByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToMovieResponse(created)
	return &resp, nil
}

func (s *adminService) UpdateMovie(ctx context.Context, movieID int64, req dto.UpdateMovieDTO) (*dto.MovieResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	req.ApplyTo(movie)
	if err := s.movieRepo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	resp := dto.FromModelToMovieResponse(movie)
	return &resp, nil
}

func (s *adminService) DeleteMovie(ctx context.Context, movieID int64) error {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}
	return s.movieRepo.Delete(ctx, movieID)
}

func (s *adminService) SetFeatured(ctx context.Context, movieID int64, featured bool) (*dto.MovieResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	movie.IsFeatured = featured
	if err := s.movieRepo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update featured flag: %w", err)
	}

	resp := dto.FromModelToMovieResponse(movie)
	return &resp, nil
}

// SearchTmdb relays the provider's search page so admins can pick what to
// import without us persisting anything.
func (s *adminService) SearchTmdb(ctx context.Context, query string, page int) (*dto.TmdbSearchResponse, error) {
	raw, err := s.tmdbClient.SearchMovies(ctx, query, page)
	if err != nil {
		return nil, err
	}

	resp := &dto.TmdbSearchResponse{Page: page}
	if results, ok := raw["results"].([]interface{}); ok {
		for _, r := range results {
			if m, ok := r.(map[string]interface{}); ok {
				resp.Results = append(resp.Results, m)
			}
		}
	}
	if v, ok := raw["total_pages"].(float64); ok {
		resp.TotalPages = int(v)
	}
	if v, ok := raw["total_results"].(float64); ok {
		resp.TotalResults = int(v)
	}
	return resp, nil
}

// ImportFromTmdb fetches full details for one provider movie and persists it.
// Importing a movie already in the catalog is a conflict, not an upsert.
func (s *adminService) ImportFromTmdb(ctx context.Context, tmdbID int) (*dto.MovieResponse, error) {
	if _, err := s.movieRepo.GetByTmdbID(ctx, tmdbID); err == nil {
		return nil, ErrMovieExists
	}

	details, err := s.tmdbClient.GetMovieDetails(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie from provider: %w", err)
	}

	movie := s.movieFromTmdbPayload(tmdbID, details)

	// Trailer lookup is best effort; an import never fails because of it.
	year := 0
	if movie.ReleaseDate != nil {
		year = movie.ReleaseDate.Year()
	}
	if trailerURL, err := s.youtubeClient.SearchTrailer(ctx, movie.Title, year); err != nil {
		s.logger.Warn("trailer lookup failed", "title", movie.Title, "error", err)
	} else if trailerURL != "" {
		movie.TrailerURL = &trailerURL
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMovieExists
		}
		return nil, fmt.Errorf("failed to persist imported movie: %w", err)
	}

	s.logger.Info("movie imported", "tmdb_id", tmdbID, "title", movie.Title)

	created, err := s.movieRepo.GetByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToMovieResponse(created)
	return &resp, nil
}

// BulkImportPopular walks N pages of the provider's popular list and imports
// every movie not already in the catalog. Returns the number imported.
// Individual failures are logged and skipped so one bad record does not
// abort the whole run.
func (s *adminService) BulkImportPopular(ctx context.Context, pages int) (int, error) {
	imported := 0

	for page := 1; page <= pages; page++ {
		raw, err := s.tmdbClient.GetPopularMovies(ctx, page)
		if err != nil {
			return imported, fmt.Errorf("failed to fetch popular page %d: %w", page, err)
		}

		results, ok := raw["results"].([]interface{})
		if !ok {
			continue
		}

		for _, r := range results {
			entry, ok := r.(map[string]interface{})
			if !ok {
				continue
			}
			idFloat, ok := entry["id"].(float64)
			if !ok {
				continue
			}
			tmdbID := int(idFloat)

			if _, err := s.movieRepo.GetByTmdbID(ctx, tmdbID); err == nil {
				continue // already imported
			}

			if _, err := s.ImportFromTmdb(ctx, tmdbID); err != nil {
				if errors.Is(err, ErrMovieExists) {
					continue
				}
				s.logger.Warn("bulk import: skipping movie", "tmdb_id", tmdbID, "error", err)
				continue
			}
			imported++
		}
	}

	s.logger.Info("bulk import finished", "pages", pages, "imported", imported)
	return imported, nil
}

func (s *adminService) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalMovies, err := s.movieRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}
	totalRatings, err := s.ratingRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	totalWatchlists, err := s.watchlistRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count watchlists: %w", err)
	}
	avg, err := s.movieRepo.AverageCatalogRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}

	return &dto.AnalyticsResponse{
		TotalUsers:      totalUsers,
		TotalMovies:     totalMovies,
		TotalRatings:    totalRatings,
		TotalWatchlists: totalWatchlists,
		AverageRating:   math.Round(avg*10) / 10,
	}, nil
}

// movieFromTmdbPayload maps a provider details payload (with credits
// appended) to our movie model. Missing fields are left nil.
func (s *adminService) movieFromTmdbPayload(tmdbID int, details map[string]interface{}) *models.Movie {
	movie := &models.Movie{TmdbID: &tmdbID}

	if v, ok := details["title"].(string); ok {
		movie.Title = v
	}
	if v, ok := details["overview"].(string); ok && v != "" {
		movie.Description = &v
	}
	if v, ok := details["release_date"].(string); ok && v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			movie.ReleaseDate = &t
		}
	}
	if v, ok := details["runtime"].(float64); ok && v > 0 {
		runtime := int(v)
		movie.Runtime = &runtime
	}
	if v, ok := details["poster_path"].(string); ok && v != "" {
		full := s.tmdbClient.FullPosterURL(v)
		movie.PosterPath = &full
	}
	if v, ok := details["backdrop_path"].(string); ok && v != "" {
		full := s.tmdbClient.FullBackdropURL(v)
		movie.BackdropPath = &full
	}

	if genres, ok := details["genres"].([]interface{}); ok {
		for _, g := range genres {
			if gm, ok := g.(map[string]interface{}); ok {
				if name, ok := gm["name"].(string); ok && name != "" {
					movie.Genres = append(movie.Genres, models.MovieGenre{Genre: name})
				}
			}
		}
	}

	if credits, ok := details["credits"].(map[string]interface{}); ok {
		if cast, ok := credits["cast"].([]interface{}); ok {
			for i, c := range cast {
				if i >= 10 { // top billed only
					break
				}
				if cm, ok := c.(map[string]interface{}); ok {
					if name, ok := cm["name"].(string); ok && name != "" {
						movie.Cast = append(movie.Cast, models.MovieCast{ActorName: name})
					}
				}
			}
		}
		if crew, ok := credits["crew"].([]interface{}); ok {
			for _, c := range crew {
				cm, ok := c.(map[string]interface{})
				if !ok {
					continue
				}
				if job, ok := cm["job"].(string); !ok || job != "Director" {
					continue
				}
				if name, ok := cm["name"].(string); ok && name != "" {
					movie.Directors = append(movie.Directors, models.MovieDirector{DirectorName: name})
				}
			}
		}
	}

	return movie
}
