package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"roamly/internal/external/chatbot"
	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newChatbotServiceForTest(upstreamURL string) (ChatbotService, *MockUserRepository, *MockMovieRepository) {
	userRepo := new(MockUserRepository)
	movieRepo := new(MockMovieRepository)
	client := chatbot.NewClient(upstreamURL, "test-key")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChatbotService(userRepo, movieRepo, client, logger), userRepo, movieRepo
}

func TestChatbotSendMessage(t *testing.T) {
	chatUser := &models.User{ID: "user-1", Username: "alice", Role: models.RoleUser}

	t.Run("relays message and reply", func(t *testing.T) {
		var got chatbot.ChatMessage
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/process", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			convID := "conv-1"
			json.NewEncoder(w).Encode(chatbot.ChatReply{Response: "hello there", ConversationID: &convID})
		}))
		defer upstream.Close()

		svc, userRepo, _ := newChatbotServiceForTest(upstream.URL)
		userRepo.On("FindByID", mock.Anything, "user-1").Return(chatUser, nil)

		resp, err := svc.SendMessage(context.Background(), "user-1", dto.ChatMessageRequest{Message: "hi"})

		assert.NoError(t, err)
		assert.Equal(t, "hello there", resp.Response)
		assert.NotNil(t, resp.ConversationID)
		assert.Equal(t, "conv-1", *resp.ConversationID)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, models.RoleUser, got.UserRole)
		assert.Equal(t, "hi", got.Message)
	})

	t.Run("upstream failure yields static reply", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		svc, userRepo, _ := newChatbotServiceForTest(upstream.URL)
		userRepo.On("FindByID", mock.Anything, "user-1").Return(chatUser, nil)

		convID := "conv-1"
		resp, err := svc.SendMessage(context.Background(), "user-1", dto.ChatMessageRequest{Message: "hi", ConversationID: &convID})

		assert.NoError(t, err)
		assert.Equal(t, chatUnavailableReply, resp.Response)
		assert.NotNil(t, resp.ConversationID)
		assert.Equal(t, "conv-1", *resp.ConversationID)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, userRepo, _ := newChatbotServiceForTest("http://127.0.0.1:0")
		userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.SendMessage(context.Background(), "ghost", dto.ChatMessageRequest{Message: "hi"})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
