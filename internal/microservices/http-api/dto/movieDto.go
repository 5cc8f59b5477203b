package dto

import (
	"time"

	"roamly/internal/microservices/http-api/models"
)

// CreateMovieDTO used for POST /api/admin/movies
type CreateMovieDTO struct {
	TmdbID       *int       `json:"tmdb_id,omitempty"`
	Title        string     `json:"title" binding:"required"`
	Description  *string    `json:"description,omitempty" binding:"omitempty,max=2000"`
	ReleaseDate  *time.Time `json:"release_date,omitempty"`
	Runtime      *int       `json:"runtime,omitempty"`
	PosterPath   *string    `json:"poster_path,omitempty"`
	BackdropPath *string    `json:"backdrop_path,omitempty"`
	TrailerURL   *string    `json:"trailer_url,omitempty"`
	Genres       []string   `json:"genres,omitempty"`
	Cast         []string   `json:"cast,omitempty"`
	Directors    []string   `json:"directors,omitempty"`
}

// UpdateMovieDTO used for PUT /api/admin/movies/:id (partial updates allowed)
type UpdateMovieDTO struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty" binding:"omitempty,max=2000"`
	ReleaseDate  *time.Time `json:"release_date,omitempty"`
	Runtime      *int       `json:"runtime,omitempty"`
	PosterPath   *string    `json:"poster_path,omitempty"`
	BackdropPath *string    `json:"backdrop_path,omitempty"`
	TrailerURL   *string    `json:"trailer_url,omitempty"`
	IsFeatured   *bool      `json:"is_featured,omitempty"`
}

// MovieResponse DTO for responses
type MovieResponse struct {
	ID           int64      `json:"id"`
	TmdbID       *int       `json:"tmdb_id,omitempty"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	ReleaseDate  *time.Time `json:"release_date,omitempty"`
	Runtime      *int       `json:"runtime,omitempty"`
	PosterPath   *string    `json:"poster_path,omitempty"`
	BackdropPath *string    `json:"backdrop_path,omitempty"`
	TrailerURL   *string    `json:"trailer_url,omitempty"`
	Rating       float64    `json:"rating"`
	VoteCount    int        `json:"vote_count"`
	IsFeatured   bool       `json:"is_featured"`
	Genres       []string   `json:"genres"`
	Cast         []string   `json:"cast,omitempty"`
	Directors    []string   `json:"directors,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MovieDetailsResponse extends MovieResponse with provider-sourced extras.
type MovieDetailsResponse struct {
	MovieResponse
	StreamingProviders []StreamingProviderDTO `json:"streaming_providers,omitempty"`
	WatchLink          *string                `json:"watch_link,omitempty"`
}

type StreamingProviderDTO struct {
	Name     string `json:"name"`
	LogoPath string `json:"logo_path,omitempty"`
}

// StatsResponse for the public catalog stats endpoint
type StatsResponse struct {
	TotalMovies  int64 `json:"total_movies"`
	TotalUsers   int64 `json:"total_users"`
	TotalRatings int64 `json:"total_ratings"`
}

// RecommendationResponse wraps a recommendation list with its source so the
// fallback is visible to callers instead of being indistinguishable from a
// personalized result.
type RecommendationResponse struct {
	Source string          `json:"source"` // personalized | default | empty
	Movies []MovieResponse `json:"movies"`
}

// Converters

func FromModelToMovieResponse(m *models.Movie) MovieResponse {
	return MovieResponse{
		ID:           m.ID,
		TmdbID:       m.TmdbID,
		Title:        m.Title,
		Description:  m.Description,
		ReleaseDate:  m.ReleaseDate,
		Runtime:      m.Runtime,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		TrailerURL:   m.TrailerURL,
		Rating:       m.Rating,
		VoteCount:    m.VoteCount,
		IsFeatured:   m.IsFeatured,
		Genres:       m.GenreNames(),
		Cast:         m.CastNames(),
		Directors:    m.DirectorNames(),
		CreatedAt:    m.CreatedAt,
	}
}

func FromModelsToMovieResponses(movies []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, FromModelToMovieResponse(&movies[i]))
	}
	return out
}

func (d CreateMovieDTO) ToModel() models.Movie {
	m := models.Movie{
		TmdbID:       d.TmdbID,
		Title:        d.Title,
		Description:  d.Description,
		ReleaseDate:  d.ReleaseDate,
		Runtime:      d.Runtime,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		TrailerURL:   d.TrailerURL,
	}
	for _, g := range d.Genres {
		m.Genres = append(m.Genres, models.MovieGenre{Genre: g})
	}
	for _, c := range d.Cast {
		m.Cast = append(m.Cast, models.MovieCast{ActorName: c})
	}
	for _, dir := range d.Directors {
		m.Directors = append(m.Directors, models.MovieDirector{DirectorName: dir})
	}
	return m
}

func (d UpdateMovieDTO) ApplyTo(m *models.Movie) {
	if d.Title != nil {
		m.Title = *d.Title
	}
	if d.Description != nil {
		m.Description = d.Description
	}
	if d.ReleaseDate != nil {
		m.ReleaseDate = d.ReleaseDate
	}
	if d.Runtime != nil {
		m.Runtime = d.Runtime
	}
	if d.PosterPath != nil {
		m.PosterPath = d.PosterPath
	}
	if d.BackdropPath != nil {
		m.BackdropPath = d.BackdropPath
	}
	if d.TrailerURL != nil {
		m.TrailerURL = d.TrailerURL
	}
	if d.IsFeatured != nil {
		m.IsFeatured = *d.IsFeatured
	}
}

// PaginatedMovieResponse for returning paginated movies
type PaginatedMovieResponse struct {
	Data       []MovieResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedMovieResponse(data []MovieResponse, page, pageSize int, total int64) PaginatedMovieResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return PaginatedMovieResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
