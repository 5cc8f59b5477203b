package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client proxies Q&A requests to the conversational backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AskRequest is the upstream payload; MovieContext gives the model the
// catalog slice it may reference in answers.
type AskRequest struct {
	APIKey         string         `json:"api_key"`
	UserID         string         `json:"user_id"`
	Username       string         `json:"username"`
	Question       string         `json:"question"`
	MovieContext   []MovieContext `json:"movie_context"`
	ConversationID *string        `json:"conversation_id,omitempty"`
}

type MovieContext struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Genres      []string `json:"genres"`
	ReleaseYear *int     `json:"release_year,omitempty"`
	Rating      float64  `json:"rating"`
	PosterPath  *string  `json:"poster_path,omitempty"`
}

type AskResponse struct {
	Answer          string           `json:"answer"`
	ConversationID  string           `json:"conversation_id"`
	SuggestedMovies []SuggestedMovie `json:"suggested_movies,omitempty"`
}

type SuggestedMovie struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	PosterPath *string `json:"poster_path,omitempty"`
	Rating     float64 `json:"rating"`
}

// ChatMessage is the free-form gateway payload routed to /chat/process.
type ChatMessage struct {
	APIKey         string  `json:"api_key"`
	UserID         string  `json:"user_id"`
	UserRole       string  `json:"user_role"`
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

type ChatReply struct {
	Response       string  `json:"response"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// Ask relays a question and the movie context to the conversational backend.
func (c *Client) Ask(ctx context.Context, req *AskRequest) (*AskResponse, error) {
	req.APIKey = c.apiKey

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chatbot/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chatbot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chatbot: HTTP %d", resp.StatusCode)
	}

	var result AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// SendMessage relays a free-form chat message to the conversational backend.
func (c *Client) SendMessage(ctx context.Context, msg *ChatMessage) (*ChatReply, error) {
	msg.APIKey = c.apiKey

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/process", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat: HTTP %d", resp.StatusCode)
	}

	var result ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}
