package repository

import (
	"context"
	"errors"
	"fmt"

	"roamly/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var ErrRatingNotFound = errors.New("rating not found")

type RatingRepository interface {
	// Create, Update and Delete each run the ledger write and the aggregate
	// recompute for the owning movie inside a single transaction.
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, ratingID, movieID int64) error
	GetByID(ctx context.Context, id int64) (*models.Rating, error)
	GetByUserAndMovie(ctx context.Context, userID string, movieID int64) (*models.Rating, error)
	GetByUser(ctx context.Context, userID string) ([]models.Rating, error)
	GetByMovie(ctx context.Context, movieID int64, page, pageSize int) ([]models.Rating, int64, error)
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// AggregateScores computes the arithmetic mean and count for a ledger of
// scores. An empty ledger yields 0.0, never NaN.
func AggregateScores(values []int) (float64, int) {
	if len(values) == 0 {
		return 0.0, 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values)), len(values)
}

// recalcMovieAggregate rewrites movie.rating and movie.vote_count from the
// current ratings ledger. Must run on the same tx as the triggering write so
// concurrent readers never see a ledger row without its aggregate.
func recalcMovieAggregate(tx *gorm.DB, movieID int64) error {
	var values []int
	if err := tx.Model(&models.Rating{}).
		Where("movie_id = ?", movieID).
		Pluck("rating_value", &values).Error; err != nil {
		return fmt.Errorf("load ledger for movie %d: %w", movieID, err)
	}

	avg, count := AggregateScores(values)

	result := tx.Model(&models.Movie{}).
		Where("id = ?", movieID).
		Updates(map[string]interface{}{
			"rating":     avg,
			"vote_count": count,
		})
	if result.Error != nil {
		return fmt.Errorf("update movie aggregate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		return recalcMovieAggregate(tx, rating.MovieID)
	})
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rating).Error; err != nil {
			return err
		}
		return recalcMovieAggregate(tx, rating.MovieID)
	})
}

func (r *ratingRepository) Delete(ctx context.Context, ratingID, movieID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", ratingID).Delete(&models.Rating{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRatingNotFound
		}
		return recalcMovieAggregate(tx, movieID)
	})
}

func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).Preload("User").First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByUserAndMovie(ctx context.Context, userID string, movieID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByUser returns all of a user's ratings with the rated movies and their
// genre tags preloaded, which is what the recommendation derivation reads.
func (r *ratingRepository) GetByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Movie").
		Preload("Movie.Genres").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetByMovie retrieves all ratings for a movie with pagination
func (r *ratingRepository) GetByMovie(ctx context.Context, movieID int64, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("movie_id = ?", movieID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&count).Error
	return count, err
}
