package dto

import (
	"time"

	"roamly/internal/microservices/http-api/models"
)

// CreateRatingDTO for creating a rating (one per user+movie)
type CreateRatingDTO struct {
	MovieID       int64   `json:"movie_id" binding:"required"`
	RatingValue   int     `json:"rating_value" binding:"required,min=1,max=10"`
	ReviewText    *string `json:"review_text,omitempty" binding:"omitempty,max=2000"`
	SpoilerTagged bool    `json:"spoiler_tagged"`
}

// UpdateRatingDTO patches an existing rating; every field is optional.
type UpdateRatingDTO struct {
	RatingValue   *int    `json:"rating_value,omitempty" binding:"omitempty,min=1,max=10"`
	ReviewText    *string `json:"review_text,omitempty" binding:"omitempty,max=2000"`
	SpoilerTagged *bool   `json:"spoiler_tagged,omitempty"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	MovieID       int64     `json:"movie_id"`
	MovieTitle    string    `json:"movie_title,omitempty"`
	RatingValue   int       `json:"rating_value"`
	ReviewText    *string   `json:"review_text,omitempty"`
	SpoilerTagged bool      `json:"spoiler_tagged"`
	Sentiment     string    `json:"sentiment"`
	HelpfulCount  int       `json:"helpful_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:            rating.ID,
		UserID:        rating.UserID,
		Username:      rating.User.Username,
		MovieID:       rating.MovieID,
		MovieTitle:    rating.Movie.Title,
		RatingValue:   rating.Value,
		ReviewText:    rating.ReviewText,
		SpoilerTagged: rating.SpoilerTagged,
		Sentiment:     string(rating.Sentiment),
		HelpfulCount:  rating.HelpfulCount,
		CreatedAt:     rating.CreatedAt,
		UpdatedAt:     rating.UpdatedAt,
	}
}

// MovieAverageResponse for the aggregate endpoint
type MovieAverageResponse struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Data       []RatingResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
}

func NewPaginatedRatingResponse(data []RatingResponse, page, pageSize int, total int64) *PaginatedRatingResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &PaginatedRatingResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
