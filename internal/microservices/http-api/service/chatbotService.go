package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roamly/internal/external/chatbot"
	"roamly/internal/microservices/http-api/dto"
	"roamly/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// contextMovieLimit bounds the catalog slice sent upstream per question.
const contextMovieLimit = 50

// chatUnavailableReply is served when the conversational backend is down.
const chatUnavailableReply = "Sorry, the chatbot service is currently unavailable. Please try again later."

// ChatbotService relays questions to the conversational backend with a
// slice of the catalog as context, and proxies free-form chat messages.
type ChatbotService interface {
	Ask(ctx context.Context, userID string, req dto.ChatbotRequest) (*dto.ChatbotResponse, error)
	SendMessage(ctx context.Context, userID string, req dto.ChatMessageRequest) (*dto.ChatMessageResponse, error)
}

type chatbotService struct {
	userRepo      repository.UserRepository
	movieRepo     repository.MovieRepository
	chatbotClient *chatbot.Client
	logger        *slog.Logger
}

func NewChatbotService(
	userRepo repository.UserRepository,
	movieRepo repository.MovieRepository,
	chatbotClient *chatbot.Client,
	logger *slog.Logger,
) ChatbotService {
	return &chatbotService{
		userRepo:      userRepo,
		movieRepo:     movieRepo,
		chatbotClient: chatbotClient,
		logger:        logger,
	}
}

func (s *chatbotService) Ask(ctx context.Context, userID string, req dto.ChatbotRequest) (*dto.ChatbotResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	movies, _, err := s.movieRepo.GetAll(ctx, 1, contextMovieLimit, "", "rating")
	if err != nil {
		// Context is optional; answer without it rather than failing.
		s.logger.Warn("failed to load movie context for chatbot", "error", err)
		movies = nil
	}

	movieContext := make([]chatbot.MovieContext, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		mc := chatbot.MovieContext{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Genres:      m.GenreNames(),
			Rating:      m.Rating,
			PosterPath:  m.PosterPath,
		}
		if m.ReleaseDate != nil {
			year := m.ReleaseDate.Year()
			mc.ReleaseYear = &year
		}
		movieContext = append(movieContext, mc)
	}

	start := time.Now()
	upstream, err := s.chatbotClient.Ask(ctx, &chatbot.AskRequest{
		UserID:         user.ID,
		Username:       user.Username,
		Question:       req.Question,
		MovieContext:   movieContext,
		ConversationID: req.ConversationID,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("chatbot request failed: %w", err)
	}

	suggestions := make([]dto.MovieSuggestionDTO, 0, len(upstream.SuggestedMovies))
	for _, sm := range upstream.SuggestedMovies {
		suggestions = append(suggestions, dto.MovieSuggestionDTO{
			ID:         sm.ID,
			Title:      sm.Title,
			PosterPath: sm.PosterPath,
			Rating:     sm.Rating,
		})
	}

	return &dto.ChatbotResponse{
		Answer:          upstream.Answer,
		ConversationID:  upstream.ConversationID,
		ResponseTimeMs:  elapsed.Milliseconds(),
		SuggestedMovies: suggestions,
	}, nil
}

// SendMessage proxies a free-form chat message. Upstream failures never
// reach the caller; the gateway answers with a static reply instead.
func (s *chatbotService) SendMessage(ctx context.Context, userID string, req dto.ChatMessageRequest) (*dto.ChatMessageResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reply, err := s.chatbotClient.SendMessage(ctx, &chatbot.ChatMessage{
		UserID:         user.ID,
		UserRole:       user.Role,
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.logger.Warn("chat gateway upstream failed", "error", err)
		return &dto.ChatMessageResponse{
			Response:       chatUnavailableReply,
			ConversationID: req.ConversationID,
		}, nil
	}

	return &dto.ChatMessageResponse{
		Response:       reply.Response,
		ConversationID: reply.ConversationID,
	}, nil
}
