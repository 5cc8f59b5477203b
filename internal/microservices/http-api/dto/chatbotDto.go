package dto

// ChatbotRequest: question payload for the Q&A proxy
type ChatbotRequest struct {
	Question       string  `json:"question" binding:"required,max=1000"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// ChatbotResponse: answer relayed from the conversational backend
type ChatbotResponse struct {
	Answer          string               `json:"answer"`
	ConversationID  string               `json:"conversation_id"`
	ResponseTimeMs  int64                `json:"response_time_ms"`
	SuggestedMovies []MovieSuggestionDTO `json:"suggested_movies,omitempty"`
}

// ChatMessageRequest: free-form message for the chat gateway
type ChatMessageRequest struct {
	Message        string  `json:"message" binding:"required,max=2000"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// ChatMessageResponse: gateway reply, a static fallback when upstream is down
type ChatMessageResponse struct {
	Response       string  `json:"response"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// MovieSuggestionDTO: a movie the chatbot referenced in its answer
type MovieSuggestionDTO struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	PosterPath *string `json:"poster_path,omitempty"`
	Rating     float64 `json:"rating"`
}
