package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	FirstName      *string    `json:"first_name,omitempty"`
	LastName       *string    `json:"last_name,omitempty"`
	Role           string     `gorm:"default:'user';not null" json:"role"` // only 2 roles: "user", "admin"
	IsBanned       bool       `gorm:"not null;default:false" json:"is_banned"`
	BanReason      *string    `json:"ban_reason,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`

	// Associations (cascade-deleted with the user)
	FavoriteGenres []UserFavoriteGenre `json:"favorite_genres,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Ratings        []Rating            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Watchlists     []Watchlist         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// FavoriteGenreNames flattens the favorite-genre tag rows to plain strings.
func (user *User) FavoriteGenreNames() []string {
	names := make([]string, 0, len(user.FavoriteGenres))
	for _, g := range user.FavoriteGenres {
		names = append(names, g.Genre)
	}
	return names
}

type UserFavoriteGenre struct {
	ID     int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID string `json:"-" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_fav_genre"`
	Genre  string `json:"genre" gorm:"not null;uniqueIndex:idx_user_fav_genre"`
}

func (UserFavoriteGenre) TableName() string {
	return "user_favorite_genres"
}
