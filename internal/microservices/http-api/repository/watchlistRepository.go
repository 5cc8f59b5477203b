package repository

import (
	"context"
	"fmt"

	"roamly/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type WatchlistRepository interface {
	Create(ctx context.Context, w *models.Watchlist) error
	GetByID(ctx context.Context, id int64) (*models.Watchlist, error)
	GetByUser(ctx context.Context, userID string) ([]models.Watchlist, error)
	Update(ctx context.Context, w *models.Watchlist) error
	Delete(ctx context.Context, id int64) error
	AddItem(ctx context.Context, watchlistID, movieID int64) error
	RemoveItem(ctx context.Context, watchlistID, movieID int64) error
	HasItem(ctx context.Context, watchlistID, movieID int64) (bool, error)
	ListPublic(ctx context.Context, page, pageSize int) ([]models.Watchlist, int64, error)
	SearchPublic(ctx context.Context, query string, page, pageSize int) ([]models.Watchlist, int64, error)
	ListPopularPublic(ctx context.Context, page, pageSize int) ([]models.Watchlist, int64, error)
	Count(ctx context.Context) (int64, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Create(ctx context.Context, w *models.Watchlist) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("create watchlist: %w", err)
	}
	return nil
}

func (r *watchlistRepository) GetByID(ctx context.Context, id int64) (*models.Watchlist, error) {
	var w models.Watchlist
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Movie").
		Preload("Items.Movie.Genres").
		First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *watchlistRepository) GetByUser(ctx context.Context, userID string) ([]models.Watchlist, error) {
	var lists []models.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *watchlistRepository) Update(ctx context.Context, w *models.Watchlist) error {
	if err := r.db.WithContext(ctx).Save(w).Error; err != nil {
		return fmt.Errorf("update watchlist: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Watchlist{}, id).Error; err != nil {
		return fmt.Errorf("delete watchlist: %w", err)
	}
	return nil
}

func (r *watchlistRepository) AddItem(ctx context.Context, watchlistID, movieID int64) error {
	item := &models.WatchlistItem{
		WatchlistID: watchlistID,
		MovieID:     movieID,
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add watchlist item: %w", err)
	}
	return nil
}

func (r *watchlistRepository) RemoveItem(ctx context.Context, watchlistID, movieID int64) error {
	result := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND movie_id = ?", watchlistID, movieID).
		Delete(&models.WatchlistItem{})
	if result.Error != nil {
		return fmt.Errorf("remove watchlist item: %w", result.Error)
	}
	return nil
}

func (r *watchlistRepository) HasItem(ctx context.Context, watchlistID, movieID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WatchlistItem{}).
		Where("watchlist_id = ? AND movie_id = ?", watchlistID, movieID).
		Count(&count).Error
	return count > 0, err
}

func (r *watchlistRepository) ListPublic(ctx context.Context, page, pageSize int) ([]models.Watchlist, int64, error) {
	return r.listPublicWhere(ctx, page, pageSize, "created_at DESC", nil)
}

func (r *watchlistRepository) SearchPublic(ctx context.Context, query string, page, pageSize int) ([]models.Watchlist, int64, error) {
	pattern := "%" + query + "%"
	return r.listPublicWhere(ctx, page, pageSize, "created_at DESC", func(q *gorm.DB) *gorm.DB {
		return q.Where("name ILIKE ? OR COALESCE(description, '') ILIKE ?", pattern, pattern)
	})
}

// ListPopularPublic orders public watchlists by item count descending.
func (r *watchlistRepository) ListPopularPublic(ctx context.Context, page, pageSize int) ([]models.Watchlist, int64, error) {
	var lists []models.Watchlist
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Watchlist{}).Where("is_public = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Where("is_public = ?", true).
		Joins("LEFT JOIN watchlist_items ON watchlist_items.watchlist_id = watchlists.id").
		Group("watchlists.id").
		Order("COUNT(watchlist_items.id) DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&lists).Error
	if err != nil {
		return nil, 0, err
	}

	return lists, total, nil
}

func (r *watchlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Watchlist{}).Count(&count).Error
	return count, err
}

func (r *watchlistRepository) listPublicWhere(ctx context.Context, page, pageSize int, order string, filter func(*gorm.DB) *gorm.DB) ([]models.Watchlist, int64, error) {
	var lists []models.Watchlist
	var total int64

	count := r.db.WithContext(ctx).Model(&models.Watchlist{}).Where("is_public = ?", true)
	if filter != nil {
		count = filter(count)
	}
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Where("is_public = ?", true)
	if filter != nil {
		q = filter(q)
	}

	offset := (page - 1) * pageSize
	if err := q.Order(order).Limit(pageSize).Offset(offset).Find(&lists).Error; err != nil {
		return nil, 0, err
	}

	return lists, total, nil
}
