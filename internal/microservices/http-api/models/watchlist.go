package models

import "time"

type Watchlist struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []WatchlistItem `json:"items,omitempty" gorm:"foreignKey:WatchlistID;constraint:OnDelete:CASCADE;"`
}

func (Watchlist) TableName() string {
	return "watchlists"
}

type WatchlistItem struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	WatchlistID int64     `json:"watchlist_id" gorm:"not null;index;uniqueIndex:idx_watchlist_movie"`
	MovieID     int64     `json:"movie_id" gorm:"not null;uniqueIndex:idx_watchlist_movie"`
	AddedAt     time.Time `json:"added_at" gorm:"default:CURRENT_TIMESTAMP"`

	// Associations
	Movie *Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
