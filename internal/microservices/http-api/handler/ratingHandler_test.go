package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/handler"
	"roamly/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) CreateRating(ctx context.Context, userID string, req dto.CreateRatingDTO) (*dto.RatingResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) UpdateRating(ctx context.Context, userID string, ratingID int64, req dto.UpdateRatingDTO) (*dto.RatingResponse, error) {
	args := m.Called(ctx, userID, ratingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) DeleteRating(ctx context.Context, userID string, ratingID int64) error {
	args := m.Called(ctx, userID, ratingID)
	return args.Error(0)
}

func (m *MockRatingService) GetUserRatingForMovie(ctx context.Context, userID string, movieID int64) (*dto.RatingResponse, error) {
	args := m.Called(ctx, userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) GetUserRatings(ctx context.Context, userID string) ([]dto.RatingResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) GetMovieRatings(ctx context.Context, movieID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	args := m.Called(ctx, movieID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedRatingResponse), args.Error(1)
}

func (m *MockRatingService) GetMovieAverage(ctx context.Context, movieID int64) (*dto.MovieAverageResponse, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MovieAverageResponse), args.Error(1)
}

// --- SETUP ---

func mockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", "testuser")
		c.Set("role", role)
		c.Next()
	}
}

func setupRatingRouter(mockService *MockRatingService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewRatingHandler(mockService)

	authed := r.Group("/api/ratings")
	authed.Use(mockAuthMiddleware(userID, "user"))
	h.RegisterRoutes(authed)

	public := r.Group("/api/movies")
	h.RegisterMovieRoutes(public)
	return r
}

// --- TESTS ---

func TestRatingHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		expected := &dto.RatingResponse{ID: 1, UserID: "user-1", MovieID: 42, RatingValue: 8, Sentiment: "POSITIVE"}
		mockService.On("CreateRating", mock.Anything, "user-1", mock.Anything).Return(expected, nil)

		body, _ := json.Marshal(dto.CreateRatingDTO{MovieID: 42, RatingValue: 8})
		req := httptest.NewRequest(http.MethodPost, "/api/ratings/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var got dto.RatingResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "POSITIVE", got.Sentiment)
		mockService.AssertExpectations(t)
	})

	t.Run("duplicate rating conflicts", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		mockService.On("CreateRating", mock.Anything, "user-1", mock.Anything).Return(nil, service.ErrAlreadyRated)

		body, _ := json.Marshal(dto.CreateRatingDTO{MovieID: 42, RatingValue: 8})
		req := httptest.NewRequest(http.MethodPost, "/api/ratings/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown movie", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		mockService.On("CreateRating", mock.Anything, "user-1", mock.Anything).Return(nil, service.ErrMovieNotFound)

		body, _ := json.Marshal(dto.CreateRatingDTO{MovieID: 999, RatingValue: 8})
		req := httptest.NewRequest(http.MethodPost, "/api/ratings/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("score out of range rejected by binding", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		req := httptest.NewRequest(http.MethodPost, "/api/ratings/", bytes.NewReader([]byte(`{"movie_id":42,"rating_value":11}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateRating", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRatingHandler_Update(t *testing.T) {
	t.Run("foreign rating forbidden", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		mockService.On("UpdateRating", mock.Anything, "user-1", int64(7), mock.Anything).
			Return(nil, service.ErrNotOwner)

		req := httptest.NewRequest(http.MethodPut, "/api/ratings/7", bytes.NewReader([]byte(`{"rating_value":3}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ok", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		expected := &dto.RatingResponse{ID: 7, UserID: "user-1", MovieID: 42, RatingValue: 3, Sentiment: "NEGATIVE"}
		mockService.On("UpdateRating", mock.Anything, "user-1", int64(7), mock.Anything).Return(expected, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/ratings/7", bytes.NewReader([]byte(`{"rating_value":3}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRatingHandler_Delete(t *testing.T) {
	t.Run("no content on success", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		mockService.On("DeleteRating", mock.Anything, "user-1", int64(7)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/ratings/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing rating", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		mockService.On("DeleteRating", mock.Anything, "user-1", int64(7)).Return(service.ErrRatingNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/ratings/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRatingHandler_MyRatingForMovie(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		expected := &dto.RatingResponse{ID: 1, UserID: "user-1", MovieID: 42, RatingValue: 8, Sentiment: "POSITIVE"}
		mockService.On("GetUserRatingForMovie", mock.Anything, "user-1", int64(42)).Return(expected, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/ratings/movie/42/my-rating", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got dto.RatingResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(42), got.MovieID)
		assert.Equal(t, 8, got.RatingValue)
	})

	t.Run("not yet rated", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		mockService.On("GetUserRatingForMovie", mock.Anything, "user-1", int64(42)).
			Return(nil, service.ErrRatingNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/ratings/movie/42/my-rating", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid movie id", func(t *testing.T) {
		mockService := new(MockRatingService)
		router := setupRatingRouter(mockService, "user-1")

		req := httptest.NewRequest(http.MethodGet, "/api/ratings/movie/abc/my-rating", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetUserRatingForMovie", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRatingHandler_MovieAverage(t *testing.T) {
	mockService := new(MockRatingService)
	router := setupRatingRouter(mockService, "")

	mockService.On("GetMovieAverage", mock.Anything, int64(42)).
		Return(&dto.MovieAverageResponse{AverageRating: 7.5, TotalRatings: 12}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/42/ratings/average", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got dto.MovieAverageResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 7.5, got.AverageRating)
	assert.Equal(t, 12, got.TotalRatings)
}
