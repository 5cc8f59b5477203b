package service

import (
	"context"
	"errors"

	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/models"
	"roamly/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// AggregateInvalidator is notified after any rating write so cached
// aggregate-derived data (the default recommendation list) can be dropped.
type AggregateInvalidator interface {
	InvalidateDefaultList(ctx context.Context)
}

type RatingService interface {
	CreateRating(ctx context.Context, userID string, req dto.CreateRatingDTO) (*dto.RatingResponse, error)
	UpdateRating(ctx context.Context, userID string, ratingID int64, req dto.UpdateRatingDTO) (*dto.RatingResponse, error)
	DeleteRating(ctx context.Context, userID string, ratingID int64) error
	GetUserRatingForMovie(ctx context.Context, userID string, movieID int64) (*dto.RatingResponse, error)
	GetUserRatings(ctx context.Context, userID string) ([]dto.RatingResponse, error)
	GetMovieRatings(ctx context.Context, movieID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	GetMovieAverage(ctx context.Context, movieID int64) (*dto.MovieAverageResponse, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	movieRepo   repository.MovieRepository
	userRepo    repository.UserRepository
	invalidator AggregateInvalidator
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	invalidator AggregateInvalidator,
) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		movieRepo:   movieRepo,
		userRepo:    userRepo,
		invalidator: invalidator,
	}
}

// CreateRating records a user's first rating of a movie. The movie's
// aggregate is recomputed in the same transaction as the insert; a failed
// movie lookup aborts before anything is written.
func (s *ratingService) CreateRating(ctx context.Context, userID string, req dto.CreateRatingDTO) (*dto.RatingResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.movieRepo.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	// One rating per (user, movie). The unique index closes the remaining
	// race window between this check and the insert.
	if _, err := s.ratingRepo.GetByUserAndMovie(ctx, userID, req.MovieID); err == nil {
		return nil, ErrAlreadyRated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rating := &models.Rating{
		UserID:        userID,
		MovieID:       req.MovieID,
		Value:         req.RatingValue,
		ReviewText:    req.ReviewText,
		SpoilerTagged: req.SpoilerTagged,
		Sentiment:     models.SentimentForScore(req.RatingValue),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	s.invalidateAggregates(ctx)

	// Reload with user data for the response
	created, err := s.ratingRepo.GetByUserAndMovie(ctx, userID, req.MovieID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToRatingResponse(created), nil
}

// UpdateRating patches a rating's value, review text or spoiler flag. Any
// value change re-derives the sentiment and recomputes the movie aggregate
// within the update transaction.
func (s *ratingService) UpdateRating(ctx context.Context, userID string, ratingID int64, req dto.UpdateRatingDTO) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	if rating.UserID != userID {
		return nil, ErrNotOwner
	}

	if req.RatingValue != nil {
		rating.Value = *req.RatingValue
		rating.Sentiment = models.SentimentForScore(*req.RatingValue)
	}
	if req.ReviewText != nil {
		rating.ReviewText = req.ReviewText
	}
	if req.SpoilerTagged != nil {
		rating.SpoilerTagged = *req.SpoilerTagged
	}

	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}

	s.invalidateAggregates(ctx)

	return dto.FromModelToRatingResponse(rating), nil
}

// DeleteRating removes a user's rating and resets the movie aggregate from
// the remaining ledger rows, atomically with the delete.
func (s *ratingService) DeleteRating(ctx context.Context, userID string, ratingID int64) error {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}

	if rating.UserID != userID {
		return ErrNotOwner
	}

	if err := s.ratingRepo.Delete(ctx, ratingID, rating.MovieID); err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return ErrRatingNotFound
		}
		return err
	}

	s.invalidateAggregates(ctx)
	return nil
}

func (s *ratingService) GetUserRatingForMovie(ctx context.Context, userID string, movieID int64) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.GetByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return dto.FromModelToRatingResponse(rating), nil
}

func (s *ratingService) GetUserRatings(ctx context.Context, userID string) ([]dto.RatingResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ratings, err := s.ratingRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return out, nil
}

func (s *ratingService) GetMovieRatings(ctx context.Context, movieID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	ratings, total, err := s.ratingRepo.GetByMovie(ctx, movieID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingResponse(&ratings[i]))
	}

	return dto.NewPaginatedRatingResponse(responses, page, pageSize, total), nil
}

// GetMovieAverage reads the aggregate straight off the movie record; the
// rating repository keeps it consistent with the ledger.
func (s *ratingService) GetMovieAverage(ctx context.Context, movieID int64) (*dto.MovieAverageResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	return &dto.MovieAverageResponse{
		AverageRating: movie.Rating,
		TotalRatings:  movie.VoteCount,
	}, nil
}

func (s *ratingService) invalidateAggregates(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateDefaultList(ctx)
	}
}
