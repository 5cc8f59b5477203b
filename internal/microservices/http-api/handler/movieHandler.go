package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/middleware"
	"roamly/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	svc            service.MovieService
	recommendation service.RecommendationService
	authService    service.AuthService
}

func NewMovieHandler(svc service.MovieService, recommendation service.RecommendationService, authService service.AuthService) *MovieHandler {
	return &MovieHandler{svc: svc, recommendation: recommendation, authService: authService}
}

func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public catalog routes
	rg.GET("/", h.Browse)
	rg.GET("/search", h.Search)
	rg.GET("/featured", h.Featured)
	rg.GET("/popular", h.Popular)
	rg.GET("/stats", h.Stats)
	rg.GET("/recommendations", middleware.OptionalAuthMiddleware(h.authService), h.Recommendations)
	rg.GET("/:movie_id", h.Get)
	rg.GET("/:movie_id/details", h.GetDetails)
}

func (h *MovieHandler) Browse(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	genre := strings.TrimSpace(c.Query("genre"))
	sortBy := strings.TrimSpace(c.Query("sort_by"))

	resp, err := h.svc.Browse(ctx, page, pageSize, genre, sortBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovieHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		q = strings.TrimSpace(c.Query("title"))
	}
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q or title query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	resp, err := h.svc.Search(ctx, q, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovieHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movie, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, movie)
}

// GetDetails includes streaming availability on top of the catalog record,
// so it gets a longer timeout than the plain lookup.
func (h *MovieHandler) GetDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	details, err := h.svc.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *MovieHandler) Featured(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movies, err := h.svc.GetFeatured(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movies, "total": len(movies)})
}

func (h *MovieHandler) Popular(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movies, err := h.svc.GetPopular(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movies, "total": len(movies)})
}

func (h *MovieHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.svc.GetStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Recommendations always answers 200 with a list; anonymous callers and any
// internal failure get the default list (or an empty one as the floor).
func (h *MovieHandler) Recommendations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	userID := c.GetString("userID") // empty for anonymous callers
	result := h.recommendation.Recommend(ctx, userID)

	c.JSON(http.StatusOK, dto.RecommendationResponse{
		Source: result.Source,
		Movies: dto.FromModelsToMovieResponses(result.Movies),
	})
}

// parsePagination reads page/page_size query params with sane bounds.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return page, pageSize
}
