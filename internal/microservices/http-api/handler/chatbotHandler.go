package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ChatbotHandler struct {
	svc service.ChatbotService
}

func NewChatbotHandler(svc service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{svc: svc}
}

func (h *ChatbotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ask", h.Ask)
}

// RegisterChatRoutes mounts the free-form chat gateway.
func (h *ChatbotHandler) RegisterChatRoutes(rg *gin.RouterGroup) {
	rg.POST("/message", h.SendMessage)
}

func (h *ChatbotHandler) Ask(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Upstream answers can be slow; give them room before timing out
	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	resp, err := h.svc.Ask(ctx, userID, req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable, try again later"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatbotHandler) SendMessage(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	resp, err := h.svc.SendMessage(ctx, userID, req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
