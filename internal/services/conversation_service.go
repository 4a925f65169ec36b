package services

import (
	"buho-backend/internal/models"
	"buho-backend/internal/store"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ConversationService handles conversation lifecycle operations.
type ConversationService struct {
	store store.Store
}

// NewConversationService creates a new ConversationService.
func NewConversationService(s store.Store) *ConversationService {
	return &ConversationService{store: s}
}

// CreateConversation creates a new empty conversation for the user.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uuid.UUID) (*models.CreateConversationResponse, error) {
	conv, err := s.store.CreateConversation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &models.CreateConversationResponse{ConversationID: conv.ID}, nil
}

// ListConversations returns the user's conversations, most recently updated
// first.
func (s *ConversationService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	convs, err := s.store.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summaries = append(summaries, models.ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			MessageCount: conv.MessageCount,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
		})
	}
	return summaries, nil
}

// GetConversation returns one conversation with its full message log.
// Propagates store.ErrNotFound / store.ErrForbidden unchanged.
func (s *ConversationService) GetConversation(ctx context.Context, userID, convID uuid.UUID) (*models.ConversationResponse, error) {
	conv, err := s.store.GetConversationByID(ctx, convID, userID)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := json.Unmarshal(conv.Messages, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse conversation messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return &models.ConversationResponse{
		ID:           conv.ID,
		Title:        conv.Title,
		Messages:     messages,
		MessageCount: conv.MessageCount,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}, nil
}

// DeleteConversation removes a conversation owned by the user.
// Propagates store.ErrNotFound / store.ErrForbidden unchanged.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, convID uuid.UUID) error {
	return s.store.DeleteConversation(ctx, convID, userID)
}
