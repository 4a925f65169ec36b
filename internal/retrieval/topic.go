// Package retrieval implements the topic-routing and web-retrieval pipeline:
// classify a user message into a topic, fetch authoritative content for that
// topic from official university pages (direct scrape or search-then-visit),
// and compose the retrieved text into an enriched prompt.
package retrieval

import "strings"

// Topic is the closed set of categories a user message can be classified into.
// The wire values are the Spanish tokens the classifier model is instructed
// to emit.
type Topic string

const (
	TopicAdmisiones Topic = "ADMISIONES"
	TopicPosgrados  Topic = "POSGRADOS"
	TopicCalendario Topic = "CALENDARIO"
	TopicProgramas  Topic = "PROGRAMAS"
	TopicMaterias   Topic = "MATERIAS"
	TopicSeguridad  Topic = "SEGURIDAD"
	// TopicNone means no external retrieval should happen for the message.
	TopicNone Topic = "NINGUNO"
)

var knownTopics = map[Topic]bool{
	TopicAdmisiones: true,
	TopicPosgrados:  true,
	TopicCalendario: true,
	TopicProgramas:  true,
	TopicMaterias:   true,
	TopicSeguridad:  true,
}

// ParseTopic normalizes a raw classifier token and matches it against the
// topic set. Anything that does not match exactly, including case variants
// with stray punctuation the model sometimes adds, resolves to TopicNone.
func ParseTopic(raw string) Topic {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.NewReplacer(".", "", "'", "", `"`, "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if t := Topic(cleaned); knownTopics[t] {
		return t
	}
	return TopicNone
}
