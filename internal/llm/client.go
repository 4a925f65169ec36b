// Package llm talks to the hosted completion provider (Groq, through its
// OpenAI-compatible API): one client for the assistant replies and the
// fast intent classifier.
package llm

import (
	"buho-backend/internal/models"
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no provider credential is configured.
// Handlers surface it as a service-unavailable error distinct from provider
// failures.
var ErrNotConfigured = errors.New("completion provider credential is not configured")

// personaPrompt fixes the assistant identity and behavioural rules, including
// the only URLs it is allowed to cite and the local context it needs to route
// normative questions to the legality page.
const personaPrompt = `Eres "Búho", el asistente virtual no oficial de la Universidad Nacional de Colombia (UNAL).
Fuiste creado y programado por estudiantes de la UNAL.
Tu objetivo es ayudar a estudiantes y aspirantes con información sobre la universidad.

Reglas de comportamiento:
1. SIEMPRE responde en español.
2. Si te preguntan tu nombre, di "Soy Búho". NUNCA digas que eres Gemma, Llama o una IA de Google/Meta.
3. Sé amable, usa un tono universitario pero respetuoso.
4. Si no sabes algo, di que no tienes esa información por el momento, no inventes datos.
5. Tus respuestas deben ser claras y concisas.
6. No inventes links a páginas que no existan. Solo puedes citar estas páginas oficiales: https://admisiones.unal.edu.co/, https://posgrados.unal.edu.co/, https://admisiones.unal.edu.co/pregrado/oferta-de-programas-curriculares/, https://sia.unal.edu.co/, https://unal.edu.co/calendario-academico, https://dfa.bogota.unal.edu.co/division-vigilancia-seguridad/, https://legal.unal.edu.co/rlunal/home/

Información Adicional:
1. "Bareto" se le conoce popularmente al porro o cigarrillo de marihuana, no al de bazuco u otras sustancias alucinógenas; cuando se mezcla marihuana y bazuco se le llama "maduro" y cuando es solo bazuco se le conoce como "carro".
2. Para cosas que desafíen la normativa de la UNAL, redirige siempre al usuario a la página oficial de la legalidad: https://legal.unal.edu.co/rlunal/home/
3. El ingreso de bebidas alcohólicas a la UNAL está prohibido; si el usuario pregunta sobre el ingreso de alcohol, redirígelo a la misma página oficial de la legalidad.`

// Config holds the provider connection settings.
type Config struct {
	APIKey          string
	BaseURL         string // OpenAI-compatible endpoint
	Model           string // assistant reply model
	ClassifierModel string // fast intent-classification model
}

// Client issues synchronous completion requests to the provider.
type Client struct {
	api *openai.Client
	cfg Config
}

// NewClient creates a Client. An empty API key is allowed here; Complete and
// Classify check for it at call time so the server can start without one.
func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api: openai.NewClientWithConfig(clientConfig),
		cfg: cfg,
	}
}

// Configured reports whether a provider credential is present. Exposed on the
// health endpoint.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Complete sends the persona, the conversation history and the composed
// prompt to the provider and returns the assistant reply. Failures here are
// hard failures for the chat turn and must propagate to the caller.
func (c *Client) Complete(ctx context.Context, prompt string, history []models.Message) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: personaPrompt,
	})
	for _, msg := range history {
		if msg.Role == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: 0.5, // lower for factual consistency
		MaxTokens:   1024,
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by completion provider")
	}

	return resp.Choices[0].Message.Content, nil
}
