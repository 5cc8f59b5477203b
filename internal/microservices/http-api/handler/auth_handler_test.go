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
	"roamly/internal/microservices/http-api/models"
	"roamly/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RefreshResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

// --- SETUP ---

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(mockService)

	h.RegisterRoutes(r.Group("/api/auth"))

	authed := r.Group("/api/users")
	authed.Use(mockAuthMiddleware("user-1", "user"))
	h.RegisterProfileRoutes(authed)
	return r
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- TESTS ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("Register", mock.Anything, mock.Anything).
			Return(&models.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}, nil)

		w := postJSON(router, "/api/auth/register", dto.RegisterRequest{
			Username: "alice", Password: "secret-password", Email: "alice@example.com",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("taken username and taken email answer alike", func(t *testing.T) {
		for _, svcErr := range []error{service.ErrNameInUse, service.ErrEmailInUse} {
			mockService := new(MockAuthService)
			router := setupAuthRouter(mockService)

			mockService.On("Register", mock.Anything, mock.Anything).Return(nil, svcErr)

			w := postJSON(router, "/api/auth/register", dto.RegisterRequest{
				Username: "alice", Password: "secret-password", Email: "alice@example.com",
			})

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Contains(t, w.Body.String(), "Account creation failed")
		}
	})

	t.Run("short password rejected by binding", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		w := postJSON(router, "/api/auth/register", dto.RegisterRequest{
			Username: "alice", Password: "short", Email: "alice@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("Login", mock.Anything, mock.Anything).Return(&dto.AuthResponse{
			AccessToken: "access", RefreshToken: "refresh", UserID: "user-1", Username: "alice", Role: "user",
		}, nil)

		w := postJSON(router, "/api/auth/login", dto.LoginRequest{Username: "alice", Password: "secret-password"})

		assert.Equal(t, http.StatusOK, w.Code)

		var got dto.AuthResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEmpty(t, got.AccessToken)
		assert.NotEmpty(t, got.RefreshToken)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)

		w := postJSON(router, "/api/auth/login", dto.LoginRequest{Username: "alice", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("banned account", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrUserBanned)

		w := postJSON(router, "/api/auth/login", dto.LoginRequest{Username: "alice", Password: "secret-password"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("banned account cannot refresh", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("RefreshAccessToken", mock.Anything, "tok").Return(nil, service.ErrUserBanned)

		w := postJSON(router, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "tok"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("RefreshAccessToken", mock.Anything, "tok").Return(nil, service.ErrExpiredToken)

		w := postJSON(router, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "tok"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		mockService.On("GetProfile", mock.Anything, "user-1").Return(&dto.UserResponse{
			ID: "user-1", Username: "alice", FavoriteGenres: []string{"Sci-Fi"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got dto.UserResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []string{"Sci-Fi"}, got.FavoriteGenres)
	})

	t.Run("update favorite genres", func(t *testing.T) {
		mockService := new(MockAuthService)
		router := setupAuthRouter(mockService)

		genres := []string{"Thriller", "Drama"}
		mockService.On("UpdateProfile", mock.Anything, "user-1",
			mock.MatchedBy(func(req dto.UpdateProfileRequest) bool {
				return req.FavoriteGenres != nil && len(*req.FavoriteGenres) == 2
			})).Return(&dto.UserResponse{ID: "user-1", FavoriteGenres: genres}, nil)

		body, _ := json.Marshal(dto.UpdateProfileRequest{FavoriteGenres: &genres})
		req := httptest.NewRequest(http.MethodPut, "/api/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}
