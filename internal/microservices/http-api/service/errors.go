package service

import "errors"

// Sentinel errors shared by the catalog services. Handlers map these onto
// HTTP statuses; everything else surfaces as an internal error.
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrRatingNotFound    = errors.New("rating not found")
	ErrWatchlistNotFound = errors.New("watchlist not found")

	ErrAlreadyRated = errors.New("movie already rated by this user")
	ErrMovieExists  = errors.New("movie already exists in catalog")
	ErrNotOwner     = errors.New("resource belongs to another user")
	ErrPrivateList  = errors.New("watchlist is private")
	ErrUserBanned   = errors.New("account is banned")
)
