package models

// Message roles. Only these two ever appear in a persisted conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation's message log.
// Immutable once appended; only the raw user text and the final assistant
// reply are ever persisted (never the enriched prompt).
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // The text content of the message
}
