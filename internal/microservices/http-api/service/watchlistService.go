package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/models"
	"roamly/internal/microservices/http-api/repository"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// fallbackQRCode is a 1x1 transparent PNG served when QR encoding fails;
// sharing should degrade, not error.
const fallbackQRCode = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

type WatchlistService interface {
	Create(ctx context.Context, userID string, req dto.CreateWatchlistDTO) (*dto.WatchlistResponse, error)
	Update(ctx context.Context, userID string, watchlistID int64, req dto.UpdateWatchlistDTO) (*dto.WatchlistResponse, error)
	Delete(ctx context.Context, userID string, watchlistID int64) error
	GetByID(ctx context.Context, userID string, watchlistID int64) (*dto.WatchlistDetailResponse, error)
	GetUserWatchlists(ctx context.Context, userID string) ([]dto.WatchlistResponse, error)
	AddMovie(ctx context.Context, userID string, watchlistID, movieID int64) error
	RemoveMovie(ctx context.Context, userID string, watchlistID, movieID int64) error
	GenerateQRCode(ctx context.Context, watchlistID int64) (*dto.QRCodeResponse, error)
	ListPublic(ctx context.Context, page, pageSize int) (*dto.PaginatedWatchlistResponse, error)
	SearchPublic(ctx context.Context, query string, page, pageSize int) (*dto.PaginatedWatchlistResponse, error)
	ListPopularPublic(ctx context.Context, page, pageSize int) (*dto.PaginatedWatchlistResponse, error)
	GetPublicByID(ctx context.Context, watchlistID int64) (*dto.WatchlistDetailResponse, error)
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	movieRepo     repository.MovieRepository
	userRepo      repository.UserRepository
	shareBaseURL  string
}

func NewWatchlistService(
	watchlistRepo repository.WatchlistRepository,
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	shareBaseURL string,
) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		movieRepo:     movieRepo,
		userRepo:      userRepo,
		shareBaseURL:  shareBaseURL,
	}
}

func (s *watchlistService) Create(ctx context.Context, userID string, req dto.CreateWatchlistDTO) (*dto.WatchlistResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	list := req.ToModel(userID)
	if err := s.watchlistRepo.Create(ctx, &list); err != nil {
		return nil, err
	}

	resp := dto.FromModelToWatchlistResponse(&list)
	return &resp, nil
}

func (s *watchlistService) Update(ctx context.Context, userID string, watchlistID int64, req dto.UpdateWatchlistDTO) (*dto.WatchlistResponse, error) {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistNotFound
		}
		return nil, err
	}

	if list.UserID != userID {
		return nil, ErrNotOwner
	}

	req.ApplyTo(list)
	if err := s.watchlistRepo.Update(ctx, list); err != nil {
		return nil, err
	}

	resp := dto.FromModelToWatchlistResponse(list)
	return &resp, nil
}

func (s *watchlistService) Delete(ctx context.Context, userID string, watchlistID int64) error {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWatchlistNotFound
		}
		return err
	}

	if list.UserID != userID {
		return ErrNotOwner
	}

	return s.watchlistRepo.Delete(ctx, watchlistID)
}

// GetByID returns a watchlist with its movies. Private lists are only
// visible to their owner.
func (s *watchlistService) GetByID(ctx context.Context, userID string, watchlistID int64) (*dto.WatchlistDetailResponse, error) {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistNotFound
		}
		return nil, err
	}

	if !list.IsPublic && list.UserID != userID {
		return nil, ErrNotOwner
	}

	resp := dto.FromModelToWatchlistDetailResponse(list)
	return &resp, nil
}

func (s *watchlistService) GetUserWatchlists(ctx context.Context, userID string) ([]dto.WatchlistResponse, error) {
	lists, err := s.watchlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.WatchlistResponse, 0, len(lists))
	for i := range lists {
		out = append(out, dto.FromModelToWatchlistResponse(&lists[i]))
	}
	return out, nil
}

// AddMovie is idempotent: adding a movie already on the list is a no-op.
func (s *watchlistService) AddMovie(ctx context.Context, userID string, watchlistID, movieID int64) error {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWatchlistNotFound
		}
		return err
	}

	if list.UserID != userID {
		return ErrNotOwner
	}

	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}

	exists, err := s.watchlistRepo.HasItem(ctx, watchlistID, movieID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.watchlistRepo.AddItem(ctx, watchlistID, movieID)
}

func (s *watchlistService) RemoveMovie(ctx context.Context, userID string, watchlistID, movieID int64) error {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWatchlistNotFound
		}
		return err
	}

	if list.UserID != userID {
		return ErrNotOwner
	}

	return s.watchlistRepo.RemoveItem(ctx, watchlistID, movieID)
}

// GenerateQRCode renders a share QR for a public watchlist as a base64 PNG
// data URL. Encoding failures fall back to a static pixel.
func (s *watchlistService) GenerateQRCode(ctx context.Context, watchlistID int64) (*dto.QRCodeResponse, error) {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistNotFound
		}
		return nil, err
	}

	if !list.IsPublic {
		return nil, ErrPrivateList
	}

	shareURL := fmt.Sprintf("%s/watchlist/%d", s.shareBaseURL, watchlistID)

	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		return &dto.QRCodeResponse{QRCode: fallbackQRCode, URL: shareURL}, nil
	}

	return &dto.QRCodeResponse{
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		URL:    shareURL,
	}, nil
}

func (s *watchlistService) ListPublic(ctx context.Context, page, pageSize int) (*dto.PaginatedWatchlistResponse, error) {
	lists, total, err := s.watchlistRepo.ListPublic(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return paginatedWatchlists(lists, page, pageSize, total), nil
}

func (s *watchlistService) SearchPublic(ctx context.Context, query string, page, pageSize int) (*dto.PaginatedWatchlistResponse, error) {
	lists, total, err := s.watchlistRepo.SearchPublic(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}
	return paginatedWatchlists(lists, page, pageSize, total), nil
}

func (s *watchlistService) ListPopularPublic(ctx context.Context, page, pageSize int) (*dto.PaginatedWatchlistResponse, error) {
	lists, total, err := s.watchlistRepo.ListPopularPublic(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return paginatedWatchlists(lists, page, pageSize, total), nil
}

// GetPublicByID serves shared links without authentication.
func (s *watchlistService) GetPublicByID(ctx context.Context, watchlistID int64) (*dto.WatchlistDetailResponse, error) {
	list, err := s.watchlistRepo.GetByID(ctx, watchlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistNotFound
		}
		return nil, err
	}

	if !list.IsPublic {
		return nil, ErrPrivateList
	}

	resp := dto.FromModelToWatchlistDetailResponse(list)
	return &resp, nil
}

func paginatedWatchlists(lists []models.Watchlist, page, pageSize int, total int64) *dto.PaginatedWatchlistResponse {
	out := make([]dto.WatchlistResponse, 0, len(lists))
	for i := range lists {
		out = append(out, dto.FromModelToWatchlistResponse(&lists[i]))
	}
	resp := dto.NewPaginatedWatchlistResponse(out, page, pageSize, total)
	return &resp
}
