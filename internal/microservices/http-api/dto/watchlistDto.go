package dto

import (
	"time"

	"roamly/internal/microservices/http-api/models"
)

// CreateWatchlistDTO for POST /api/watchlists
type CreateWatchlistDTO struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateWatchlistDTO patches a watchlist; every field is optional.
type UpdateWatchlistDTO struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// WatchlistResponse summary view (no items)
type WatchlistResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	MovieCount  int       `json:"movie_count"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WatchlistDetailResponse includes the member movies.
type WatchlistDetailResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	IsPublic    bool            `json:"is_public"`
	Movies      []MovieResponse `json:"movies"`
	UserID      string          `json:"user_id"`
	Username    string          `json:"username,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// QRCodeResponse carries the share QR code as a base64 PNG data URL.
type QRCodeResponse struct {
	QRCode string `json:"qr_code"`
	URL    string `json:"url"`
}

func FromModelToWatchlistResponse(w *models.Watchlist) WatchlistResponse {
	resp := WatchlistResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		IsPublic:    w.IsPublic,
		MovieCount:  len(w.Items),
		UserID:      w.UserID,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if w.User != nil {
		resp.Username = w.User.Username
	}
	return resp
}

func FromModelToWatchlistDetailResponse(w *models.Watchlist) WatchlistDetailResponse {
	movies := make([]MovieResponse, 0, len(w.Items))
	for i := range w.Items {
		if w.Items[i].Movie == nil {
			continue
		}
		movies = append(movies, FromModelToMovieResponse(w.Items[i].Movie))
	}

	resp := WatchlistDetailResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		IsPublic:    w.IsPublic,
		Movies:      movies,
		UserID:      w.UserID,
		CreatedAt:   w.CreatedAt,
	}
	if w.User != nil {
		resp.Username = w.User.Username
	}
	return resp
}

func (d CreateWatchlistDTO) ToModel(userID string) models.Watchlist {
	return models.Watchlist{
		UserID:      userID,
		Name:        d.Name,
		Description: d.Description,
		IsPublic:    d.IsPublic,
	}
}

func (d UpdateWatchlistDTO) ApplyTo(w *models.Watchlist) {
	if d.Name != nil {
		w.Name = *d.Name
	}
	if d.Description != nil {
		w.Description = d.Description
	}
	if d.IsPublic != nil {
		w.IsPublic = *d.IsPublic
	}
}

// PaginatedWatchlistResponse for public watchlist discovery
type PaginatedWatchlistResponse struct {
	Data       []WatchlistResponse `json:"data"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

func NewPaginatedWatchlistResponse(data []WatchlistResponse, page, pageSize int, total int64) PaginatedWatchlistResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return PaginatedWatchlistResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
