package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type WatchlistHandler struct {
	svc service.WatchlistService
}

func NewWatchlistHandler(svc service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

// RegisterRoutes mounts the authenticated watchlist routes.
func (h *WatchlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.Create)
	rg.GET("/", h.ListMine)
	rg.GET("/:watchlist_id", h.Get)
	rg.PUT("/:watchlist_id", h.Update)
	rg.DELETE("/:watchlist_id", h.Delete)
	rg.POST("/:watchlist_id/movies/:movie_id", h.AddMovie)
	rg.DELETE("/:watchlist_id/movies/:movie_id", h.RemoveMovie)
	rg.GET("/:watchlist_id/qrcode", h.QRCode)
}

// RegisterPublicRoutes mounts the anonymous discovery routes.
func (h *WatchlistHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ListPublic)
	rg.GET("/search", h.SearchPublic)
	rg.GET("/popular", h.PopularPublic)
	rg.GET("/:watchlist_id", h.GetPublic)
}

func (h *WatchlistHandler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var in dto.CreateWatchlistDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.Create(ctx, userID, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *WatchlistHandler) ListMine(c *gin.Context) {
	userID := c.GetString("userID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lists, err := h.svc.GetUserWatchlists(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lists, "total": len(lists)})
}

func (h *WatchlistHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")
	watchlistID, err := strconv.ParseInt(c.Param("watchlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetByID(ctx, userID, watchlistID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *WatchlistHandler) Update(c *gin.Context) {
	userID := c.GetString("userID")
	watchlistID, err := strconv.ParseInt(c.Param("watchlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var in dto.UpdateWatchlistDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.Update(ctx, userID, watchlistID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *WatchlistHandler) Delete(c *gin.Context) {
	userID := c.GetString("userID")
	watchlistID, err := strconv.ParseInt(c.Param("watchlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, userID, watchlistID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WatchlistHandler) AddMovie(c *gin.Context) {
	userID := c.GetString("userID")
	watchlistID, movieID, ok := h.parseItemIDs(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.AddMovie(ctx, userID, watchlistID, movieID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WatchlistHandler) RemoveMovie(c *gin.Context) {
	userID := c.GetString("userID")
	watchlistID, movieID, ok := h.parseItemIDs(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RemoveMovie(ctx, userID, watchlistID, movieID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// QRCode builds a share code for a public watchlist. Encoding problems fall
// back to a placeholder image inside the service, so the only errors here
// are lookup and visibility ones.
func (h *WatchlistHandler) QRCode(c *gin.Context) {
	watchlistID, err := strconv.ParseInt(c.Param("watchlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	code, err := h.svc.GenerateQRCode(ctx, watchlistID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

func (h *WatchlistHandler) ListPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	resp, err := h.svc.ListPublic(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WatchlistHandler) SearchPublic(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	resp, err := h.svc.SearchPublic(ctx, q, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WatchlistHandler) PopularPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	resp, err := h.svc.ListPopularPublic(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WatchlistHandler) GetPublic(c *gin.Context) {
	watchlistID, err := strconv.ParseInt(c.Param("watchlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetPublicByID(ctx, watchlistID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *WatchlistHandler) parseItemIDs(c *gin.Context) (watchlistID, movieID int64, ok bool) {
	watchlistID, err := strconv.ParseInt(c.Param("watchlist_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid watchlist id"})
		return 0, 0, false
	}
	movieID, err = strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return 0, 0, false
	}
	return watchlistID, movieID, true
}

func (h *WatchlistHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWatchlistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
	case errors.Is(err, service.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "watchlist belongs to another user"})
	case errors.Is(err, service.ErrPrivateList):
		c.JSON(http.StatusForbidden, gin.H{"error": "watchlist is private"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
