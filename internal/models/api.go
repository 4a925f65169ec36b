package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChatRequest defines the body for the chat endpoint.
type ChatRequest struct {
	Message        string    `json:"message"`
	ConversationID uuid.UUID `json:"conversationId"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateConversationResponse is returned when a new conversation is created.
type CreateConversationResponse struct {
	ConversationID uuid.UUID `json:"conversationId"`
}

// ConversationSummary is the list-view representation of a conversation.
type ConversationSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ConversationResponse is the full representation including the message log.
type ConversationResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ChatResponse is returned for a completed chat turn. Scraped reports whether
// external retrieval contributed content to this turn's prompt.
type ChatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Scraped bool   `json:"scraped"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// HealthResponse reports server and completion-provider status.
type HealthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
}
