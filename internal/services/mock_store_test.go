package services

import (
	"buho-backend/internal/models"
	"buho-backend/internal/store"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// mockStore is an in-memory store.Store used by the service tests.
type mockStore struct {
	users         map[string]*models.User
	conversations map[uuid.UUID]*models.Conversation

	appendTurnErr error
	appendedTurns []models.Message
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		users:         make(map[string]*models.User),
		conversations: make(map[uuid.UUID]*models.Conversation),
	}
}

func (m *mockStore) addConversation(userID uuid.UUID, messages []models.Message) *models.Conversation {
	raw, _ := json.Marshal(messages)
	conv := &models.Conversation{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Nueva conversación",
		Messages:     raw,
		MessageCount: len(messages),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.conversations[conv.ID] = conv
	return conv
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) CreateUser(ctx context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *mockStore) CreateConversation(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	return m.addConversation(userID, nil), nil
}

func (m *mockStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, conv := range m.conversations {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (m *mockStore) GetConversationByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if conv.UserID != userID {
		return nil, store.ErrForbidden
	}
	return conv, nil
}

func (m *mockStore) AppendTurn(ctx context.Context, id uuid.UUID, userID uuid.UUID, userMsg, assistantMsg models.Message) error {
	if m.appendTurnErr != nil {
		return m.appendTurnErr
	}
	conv, err := m.GetConversationByID(ctx, id, userID)
	if err != nil {
		return err
	}

	var messages []models.Message
	if err := json.Unmarshal(conv.Messages, &messages); err != nil {
		return err
	}
	if len(messages) == 0 {
		conv.Title = store.TitleFromMessage(userMsg.Content)
	}
	messages = append(messages, userMsg, assistantMsg)
	conv.Messages, _ = json.Marshal(messages)
	conv.MessageCount = len(messages)
	conv.UpdatedAt = time.Now()

	m.appendedTurns = append(m.appendedTurns, userMsg, assistantMsg)
	return nil
}

func (m *mockStore) DeleteConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if _, err := m.GetConversationByID(ctx, id, userID); err != nil {
		return err
	}
	delete(m.conversations, id)
	return nil
}
