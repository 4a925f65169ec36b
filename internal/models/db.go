package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Conversation represents a persisted conversation thread.
// Messages holds the ordered, append-only message log as a JSONB array.
// MessageCount must always equal the length of that array.
type Conversation struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	Title        string          `db:"title"`
	Messages     json.RawMessage `db:"messages"` // Stored as JSONB
	MessageCount int             `db:"message_count"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
