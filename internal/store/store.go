package store

import (
	"buho-backend/internal/models"
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrForbidden is returned when a record exists but belongs to another user.
// Kept distinct from ErrNotFound so handlers can respond 403 vs 404.
var ErrForbidden = errors.New("access denied")

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	// Conversation operations
	CreateConversation(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	GetConversationByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Conversation, error)
	// AppendTurn appends exactly one user message and one assistant message,
	// bumps message_count and updated_at, and sets the title from the user
	// message only when the conversation was previously empty.
	AppendTurn(ctx context.Context, id uuid.UUID, userID uuid.UUID, userMsg, assistantMsg models.Message) error
	DeleteConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// TitleMaxLen is the number of characters of the first user message used as
// the conversation title. Longer messages are truncated with an ellipsis.
const TitleMaxLen = 50

// TitleFromMessage derives a conversation title from its first user message.
func TitleFromMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxLen {
		return text
	}
	return string(runes[:TitleMaxLen]) + "..."
}
