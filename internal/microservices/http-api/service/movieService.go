package service

import (
	"context"
	"errors"
	"log/slog"

	"roamly/internal/external/tmdb"
	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

const providerRegion = "US"

// StreamingLookup is the slice of the metadata provider the public movie
// details endpoint reads. Failures here are best-effort decoration, never a
// request failure.
type StreamingLookup interface {
	GetWatchProviders(ctx context.Context, tmdbID int, region string) (*tmdb.WatchProviders, error)
}

type MovieService interface {
	Browse(ctx context.Context, page, pageSize int, genre, sortBy string) (*dto.PaginatedMovieResponse, error)
	Search(ctx context.Context, query string, page, pageSize int) (*dto.PaginatedMovieResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.MovieResponse, error)
	GetDetails(ctx context.Context, id int64) (*dto.MovieDetailsResponse, error)
	GetFeatured(ctx context.Context) ([]dto.MovieResponse, error)
	GetPopular(ctx context.Context, limit int) ([]dto.MovieResponse, error)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type movieService struct {
	movieRepo  repository.MovieRepository
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	streaming  StreamingLookup
	logger     *slog.Logger
}

func NewMovieService(
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	streaming StreamingLookup,
	logger *slog.Logger,
) MovieService {
	if logger == nil {
		logger = slog.Default()
	}
	return &movieService{
		movieRepo:  movieRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		streaming:  streaming,
		logger:     logger,
	}
}

func (s *movieService) Browse(ctx context.Context, page, pageSize int, genre, sortBy string) (*dto.PaginatedMovieResponse, error) {
	movies, total, err := s.movieRepo.GetAll(ctx, page, pageSize, genre, sortBy)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPaginatedMovieResponse(dto.FromModelsToMovieResponses(movies), page, pageSize, total)
	return &resp, nil
}

func (s *movieService) Search(ctx context.Context, query string, page, pageSize int) (*dto.PaginatedMovieResponse, error) {
	movies, total, err := s.movieRepo.SearchByTitle(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPaginatedMovieResponse(dto.FromModelsToMovieResponses(movies), page, pageSize, total)
	return &resp, nil
}

func (s *movieService) GetByID(ctx context.Context, id int64) (*dto.MovieResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToMovieResponse(movie)
	return &resp, nil
}

// GetDetails returns the movie plus provider-sourced streaming availability.
// Provider errors only cost the extras.
func (s *movieService) GetDetails(ctx context.Context, id int64) (*dto.MovieDetailsResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	details := &dto.MovieDetailsResponse{
		MovieResponse: dto.FromModelToMovieResponse(movie),
	}

	if movie.TmdbID != nil && s.streaming != nil {
		providers, err := s.streaming.GetWatchProviders(ctx, *movie.TmdbID, providerRegion)
		if err != nil {
			s.logger.Warn("streaming availability unavailable", "movie_id", id, "error", err)
		} else {
			for _, p := range providers.Flatrate {
				details.StreamingProviders = append(details.StreamingProviders, dto.StreamingProviderDTO{
					Name:     p.ProviderName,
					LogoPath: p.LogoPath,
				})
			}
			if providers.Link != "" {
				link := providers.Link
				details.WatchLink = &link
			}
		}
	}

	return details, nil
}

func (s *movieService) GetFeatured(ctx context.Context) ([]dto.MovieResponse, error) {
	movies, err := s.movieRepo.GetFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromModelsToMovieResponses(movies), nil
}

func (s *movieService) GetPopular(ctx context.Context, limit int) ([]dto.MovieResponse, error) {
	movies, err := s.movieRepo.GetMostPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromModelsToMovieResponses(movies), nil
}

func (s *movieService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	totalMovies, err := s.movieRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalRatings, err := s.ratingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalMovies:  totalMovies,
		TotalUsers:   totalUsers,
		TotalRatings: totalRatings,
	}, nil
}
