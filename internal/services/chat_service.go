package services

import (
	"buho-backend/internal/models"
	"buho-backend/internal/retrieval"
	"buho-backend/internal/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// ErrCompletion marks hard failures of the completion provider, so handlers
// can tell them apart from persistence failures.
var ErrCompletion = errors.New("completion failed")

// TopicRouter decides whether a chat turn gets external enrichment and, if
// so, supplies the retrieved text. Never fails: no enrichment is always a
// valid outcome.
type TopicRouter interface {
	Route(ctx context.Context, message string) (content string, scraped bool)
}

// Completer produces the assistant reply for a composed prompt plus history.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []models.Message) (string, error)
}

// ChatService orchestrates one chat turn: ownership check, conditional
// retrieval, prompt composition, completion, and the two-message append.
type ChatService struct {
	store     store.Store
	router    TopicRouter
	completer Completer
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, router TopicRouter, completer Completer) *ChatService {
	return &ChatService{
		store:     s,
		router:    router,
		completer: completer,
	}
}

// SendMessage runs a full chat turn for the user's conversation and returns
// the assistant reply plus whether retrieval contributed to the prompt.
//
// Retrieval failures are soft (the turn continues without enrichment);
// completion failures are hard and propagate, since no reply can be produced.
// The raw user message is what gets persisted, never the enriched prompt.
func (s *ChatService) SendMessage(ctx context.Context, userID, convID uuid.UUID, text string) (string, bool, error) {
	conv, err := s.store.GetConversationByID(ctx, convID, userID)
	if err != nil {
		return "", false, err
	}

	var history []models.Message
	if err := json.Unmarshal(conv.Messages, &history); err != nil {
		return "", false, fmt.Errorf("failed to parse conversation messages: %w", err)
	}

	content, scraped := s.router.Route(ctx, text)
	prompt := retrieval.ComposePrompt(text, content)

	reply, err := s.completer.Complete(ctx, prompt, history)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	userMsg := models.Message{Role: models.RoleUser, Content: text}
	assistantMsg := models.Message{Role: models.RoleAssistant, Content: reply}
	if err := s.store.AppendTurn(ctx, convID, userID, userMsg, assistantMsg); err != nil {
		return "", false, fmt.Errorf("failed to append turn: %w", err)
	}

	log.Printf("ChatService: turn completed for conversation %s (scraped=%t)", convID, scraped)
	return reply, scraped, nil
}
