package retrieval

import "fmt"

// enrichedPromptTemplate labels retrieved content as fresh official
// information and instructs the model to ground its answer in it.
const enrichedPromptTemplate = `Pregunta del usuario: %s

[Información actualizada extraída de sitios oficiales de la UNAL]
%s

Responde basándote en la información proporcionada. Si es relevante, menciona las fuentes oficiales de la UNAL.`

// ComposePrompt merges the user message with retrieved content into the text
// sent to the completion provider for this turn. With no retrieved content
// the prompt is the user message unchanged. The composed text is ephemeral:
// only the raw user message is ever persisted.
func ComposePrompt(userMessage, retrieved string) string {
	if retrieved == "" {
		return userMessage
	}
	return fmt.Sprintf(enrichedPromptTemplate, userMessage, retrieved)
}
