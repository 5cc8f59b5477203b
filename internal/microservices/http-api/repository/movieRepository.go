package repository

import (
	"context"
	"fmt"
	"strings"

	"roamly/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// allowed sort columns for browse; anything else falls back to rating
var movieSortColumns = map[string]string{
	"rating":       "rating",
	"vote_count":   "vote_count",
	"release_date": "release_date",
	"created_at":   "created_at",
	"title":        "title",
}

type MovieRepository interface {
	GetAll(ctx context.Context, page, pageSize int, genre, sortBy string) ([]models.Movie, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	GetByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error)
	Create(ctx context.Context, m *models.Movie) error
	Update(ctx context.Context, m *models.Movie) error
	Delete(ctx context.Context, id int64) error
	SearchByTitle(ctx context.Context, query string, page, pageSize int) ([]models.Movie, int64, error)
	GetFeatured(ctx context.Context) ([]models.Movie, error)
	GetMostPopular(ctx context.Context, limit int) ([]models.Movie, error)
	GetTopRated(ctx context.Context, limit int) ([]models.Movie, error)
	GetByGenre(ctx context.Context, genre string, limit int, excludeIDs []int64) ([]models.Movie, error)
	Count(ctx context.Context) (int64, error)
	AverageCatalogRating(ctx context.Context) (float64, error)
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) GetAll(ctx context.Context, page, pageSize int, genre, sortBy string) ([]models.Movie, int64, error) {
	var list []models.Movie
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Movie{})
	if genre != "" {
		q = q.Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Where("movie_genres.genre = ?", genre)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := movieSortColumns[sortBy]
	if !ok {
		col = "rating"
	}

	offset := (page - 1) * pageSize
	if err := q.
		Preload("Genres").
		Order(col + " DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Cast").
		Preload("Directors").
		First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movieRepository) GetByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).Where("tmdb_id = ?", tmdbID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movieRepository) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create movie: %w", err)
	}
	return nil
}

func (r *movieRepository) Update(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Movie{}, id).Error; err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

// SearchByTitle performs a case-insensitive partial match on title.
// Splits the query into tokens and requires each token to appear in the title.
func (r *movieRepository) SearchByTitle(ctx context.Context, query string, page, pageSize int) ([]models.Movie, int64, error) {
	var list []models.Movie
	var total int64

	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return list, 0, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Movie{})
	for _, t := range tokens {
		q = q.Where("title ILIKE ?", "%"+t+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.
		Preload("Genres").
		Order("rating DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("search movies by title: %w", err)
	}

	return list, total, nil
}

func (r *movieRepository) GetFeatured(ctx context.Context) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("is_featured = ?", true).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *movieRepository) GetMostPopular(ctx context.Context, limit int) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Order("vote_count DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetTopRated returns movies ordered by aggregate rating then vote count,
// both descending. This is the default recommendation ranking.
func (r *movieRepository) GetTopRated(ctx context.Context, limit int) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Order("rating DESC, vote_count DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetByGenre returns up to limit movies tagged with genre, skipping excludeIDs.
func (r *movieRepository) GetByGenre(ctx context.Context, genre string, limit int, excludeIDs []int64) ([]models.Movie, error) {
	var list []models.Movie
	q := r.db.WithContext(ctx).
		Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
		Where("movie_genres.genre = ?", genre)
	if len(excludeIDs) > 0 {
		q = q.Where("movies.id NOT IN ?", excludeIDs)
	}
	if err := q.
		Preload("Genres").
		Order("rating DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("movies by genre %q: %w", genre, err)
	}
	return list, nil
}

func (r *movieRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Movie{}).Count(&count).Error
	return count, err
}

func (r *movieRepository) AverageCatalogRating(ctx context.Context) (float64, error) {
	var avg struct {
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Movie{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg.Average, nil
}
