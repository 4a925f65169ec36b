package llm

import (
	"buho-backend/internal/retrieval"
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Compile-time check that Client satisfies the retrieval classifier contract.
var _ retrieval.Classifier = (*Client)(nil)

// classifierPrompt forces the small model to answer with exactly one
// category word.
const classifierPrompt = `Eres un clasificador de intenciones. Tu ÚNICO trabajo es leer el mensaje del usuario y clasificarlo en UNA de estas categorías:

1. ADMISIONES (Si pregunta sobre exámenes, inscripciones a pregrado, puntajes, pasar a la U).
2. POSGRADOS (Si pregunta sobre maestrías, doctorados, especializaciones).
3. CALENDARIO (Si pregunta fechas, cuándo empieza semestre, cuándo acaba).
4. PROGRAMAS (Si pregunta qué carreras hay, lista de ingenierías, planes de estudio).
5. MATERIAS (Si pregunta sobre créditos, asignaturas, clases específicas).
6. SEGURIDAD (Si pregunta sobre emergencias, vigilancia, objetos perdidos, denuncias, líneas de atención, seguridad en el campus).
7. NINGUNO (Si es un saludo, una pregunta general, filosofía, chiste, o no tiene que ver con datos de la web).

REGLA DE ORO: Responde SOLAMENTE con la palabra de la categoría. No digas "La categoría es...". Solo la palabra.`

// Classify maps a user message to a topic using the fast model. Best-effort
// and cheap: a single attempt, and on any failure (missing credential,
// network, provider, unparseable output) it degrades to TopicNone rather
// than aborting the chat turn.
func (c *Client) Classify(ctx context.Context, message string) retrieval.Topic {
	if !c.Configured() {
		return retrieval.TopicNone
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.ClassifierModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: 0,
		MaxTokens:   10,
	})
	if err != nil {
		log.Printf("[Classifier] classification failed: %v", err)
		return retrieval.TopicNone
	}
	if len(resp.Choices) == 0 {
		return retrieval.TopicNone
	}

	topic := retrieval.ParseTopic(resp.Choices[0].Message.Content)
	log.Printf("[Classifier] %q -> [%s]", message, topic)
	return topic
}
