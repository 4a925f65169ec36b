package postgres

import (
	"buho-backend/internal/models"
	"buho-backend/internal/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Messages,
		&conv.MessageCount,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (
    id, user_id, title, messages, message_count
) VALUES (
    $1, $2, $3, '[]'::jsonb, 0
)
RETURNING id, user_id, title, messages, message_count, created_at, updated_at;
`

// CreateConversation inserts a new empty conversation for the user.
func (s *PostgresStore) CreateConversation(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, createConversation, uuid.New(), userID, "Nueva conversación")
	conv, err := scanConversation(row)
	if err != nil {
		return nil, fmt.Errorf("error scanning created conversation: %w", err)
	}
	return conv, nil
}

const listConversationsByUser = `-- name: ListConversationsByUser :many
SELECT id, user_id, title, messages, message_count, created_at, updated_at
FROM conversations
WHERE user_id = $1
ORDER BY updated_at DESC;
`

// ListConversationsByUser returns the user's conversations, most recently
// updated first.
func (s *PostgresStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	rows, err := s.db.Query(ctx, listConversationsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var items []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, *conv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return items, nil
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, user_id, title, messages, message_count, created_at, updated_at
FROM conversations
WHERE id = $1;
`

// GetConversationByID fetches one conversation and enforces ownership.
// Returns store.ErrNotFound if no record exists and store.ErrForbidden if the
// record belongs to a different user.
func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, getConversationByID, id)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}

	if conv.UserID != userID {
		return nil, store.ErrForbidden
	}

	return conv, nil
}

// AppendTurn appends a user/assistant message pair to the conversation's
// messages JSONB array. Read-then-write: concurrent turns on the same
// conversation are last-writer-wins, which the append-only message model
// tolerates.
func (s *PostgresStore) AppendTurn(ctx context.Context, id uuid.UUID, userID uuid.UUID, userMsg, assistantMsg models.Message) error {
	conv, err := s.GetConversationByID(ctx, id, userID)
	if err != nil {
		return err
	}

	var messages []models.Message
	if err := json.Unmarshal(conv.Messages, &messages); err != nil {
		return fmt.Errorf("failed to parse conversation messages: %w", err)
	}

	wasEmpty := len(messages) == 0
	messages = append(messages, userMsg, assistantMsg)

	updatedData, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal updated messages: %w", err)
	}

	if wasEmpty {
		const updateWithTitle = `
			UPDATE conversations
			SET messages = $1, message_count = $2, title = $3, updated_at = NOW()
			WHERE id = $4 AND user_id = $5;
		`
		tag, err := s.db.Exec(ctx, updateWithTitle, updatedData, len(messages), store.TitleFromMessage(userMsg.Content), id, userID)
		if err != nil {
			return fmt.Errorf("failed to update conversation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	}

	const updateMessages = `
		UPDATE conversations
		SET messages = $1, message_count = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4;
	`
	tag, err := s.db.Exec(ctx, updateMessages, updatedData, len(messages), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

const deleteConversation = `-- name: DeleteConversation :exec
DELETE FROM conversations
WHERE id = $1 AND user_id = $2;
`

// DeleteConversation removes a conversation after verifying ownership, so a
// mismatched owner yields ErrForbidden rather than a silent no-op.
func (s *PostgresStore) DeleteConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if _, err := s.GetConversationByID(ctx, id, userID); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, deleteConversation, id, userID)
	if err != nil {
		return fmt.Errorf("error executing delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
