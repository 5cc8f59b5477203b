package dto

import (
	"roamly/internal/microservices/http-api/models"
)

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Password  string  `json:"password" binding:"required,min=8"`
	Email     string  `json:"email" binding:"required,email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// RefreshTokenRequest: payload for refreshing access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse: response payload after refreshing access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserResponse: public view of a user account
type UserResponse struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	FirstName      *string  `json:"first_name,omitempty"`
	LastName       *string  `json:"last_name,omitempty"`
	Role           string   `json:"role"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	FavoriteGenres []string `json:"favorite_genres"`
	IsBanned       bool     `json:"is_banned"`
	BanReason      *string  `json:"ban_reason,omitempty"`
}

// UpdateProfileRequest: nullable-patch of profile fields
type UpdateProfileRequest struct {
	FirstName      *string   `json:"first_name,omitempty"`
	LastName       *string   `json:"last_name,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	FavoriteGenres *[]string `json:"favorite_genres,omitempty"`
}

func FromModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
		FavoriteGenres: user.FavoriteGenreNames(),
		IsBanned:       user.IsBanned,
		BanReason:      user.BanReason,
	}
}
