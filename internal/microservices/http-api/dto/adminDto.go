package dto

// BanUserRequest carries the reason recorded on the banned account.
type BanUserRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AnalyticsResponse for the admin overview dashboard
type AnalyticsResponse struct {
	TotalUsers      int64   `json:"total_users"`
	TotalMovies     int64   `json:"total_movies"`
	TotalRatings    int64   `json:"total_ratings"`
	TotalWatchlists int64   `json:"total_watchlists"`
	AverageRating   float64 `json:"average_rating"`
}

// TmdbImportRequest identifies the provider movie to import.
type TmdbImportRequest struct {
	TmdbID int `json:"tmdb_id" binding:"required"`
}

// TmdbBulkImportRequest imports N pages of the provider's popular list.
type TmdbBulkImportRequest struct {
	Pages int `json:"pages" binding:"required,min=1,max=10"`
}

// TmdbSearchResponse relays the provider's raw search page.
type TmdbSearchResponse struct {
	Results      []map[string]interface{} `json:"results"`
	Page         int                      `json:"page"`
	TotalPages   int                      `json:"total_pages"`
	TotalResults int                      `json:"total_results"`
}

// PaginatedUserResponse for the admin user list
type PaginatedUserResponse struct {
	Data       []UserResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedUserResponse(data []UserResponse, page, pageSize int, total int64) PaginatedUserResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return PaginatedUserResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
