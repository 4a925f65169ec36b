package llm

import (
	"buho-backend/internal/models"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider stands in for the OpenAI-compatible chat completions endpoint.
// It records the last request and answers with a fixed completion.
type fakeProvider struct {
	srv         *httptest.Server
	lastRequest openai.ChatCompletionRequest
	reply       string
	status      int
}

func newFakeProvider(t *testing.T, reply string) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{reply: reply, status: http.StatusOK}
	fp.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fp.lastRequest))
		if fp.status != http.StatusOK {
			w.WriteHeader(fp.status)
			return
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: fp.reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	return fp
}

func (fp *fakeProvider) client(model, classifierModel string) *Client {
	return NewClient(Config{
		APIKey:          "test-key",
		BaseURL:         fp.srv.URL,
		Model:           model,
		ClassifierModel: classifierModel,
	})
}

func TestCompleteBuildsMessageSequence(t *testing.T) {
	fp := newFakeProvider(t, "Soy Búho, con gusto te ayudo.")
	defer fp.srv.Close()

	history := []models.Message{
		{Role: models.RoleUser, Content: "Hola"},
		{Role: models.RoleAssistant, Content: "¡Hola! ¿En qué te ayudo?"},
	}

	reply, err := fp.client("main-model", "fast-model").Complete(context.Background(), "¿Cuándo abren admisiones?", history)
	require.NoError(t, err)
	assert.Equal(t, "Soy Búho, con gusto te ayudo.", reply)

	req := fp.lastRequest
	assert.Equal(t, "main-model", req.Model)
	assert.InDelta(t, 0.5, req.Temperature, 0.001)
	assert.Equal(t, 1024, req.MaxTokens)

	require.Len(t, req.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `Eres "Búho"`)
	assert.Contains(t, req.Messages[0].Content, "Información Adicional:")
	assert.Contains(t, req.Messages[0].Content, "https://legal.unal.edu.co/rlunal/home/")
	assert.Equal(t, "Hola", req.Messages[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, req.Messages[2].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[3].Role)
	assert.Equal(t, "¿Cuándo abren admisiones?", req.Messages[3].Content)
}

func TestCompleteSkipsMalformedHistoryEntries(t *testing.T) {
	fp := newFakeProvider(t, "ok")
	defer fp.srv.Close()

	history := []models.Message{
		{Role: "", Content: "entrada corrupta"},
		{Role: models.RoleUser, Content: "Hola"},
	}

	_, err := fp.client("main-model", "fast-model").Complete(context.Background(), "sigue", history)
	require.NoError(t, err)

	// persona + one valid history entry + the prompt
	require.Len(t, fp.lastRequest.Messages, 3)
	assert.Equal(t, "Hola", fp.lastRequest.Messages[1].Content)
}

func TestCompleteWithoutCredential(t *testing.T) {
	client := NewClient(Config{Model: "main-model"})

	_, err := client.Complete(context.Background(), "hola", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCompleteProviderError(t *testing.T) {
	fp := newFakeProvider(t, "")
	fp.status = http.StatusInternalServerError
	defer fp.srv.Close()

	_, err := fp.client("main-model", "fast-model").Complete(context.Background(), "hola", nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient(Config{APIKey: "k"}).Configured())
	assert.False(t, NewClient(Config{}).Configured())
}
