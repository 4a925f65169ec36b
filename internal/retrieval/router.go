package retrieval

import (
	"context"
	"log"
)

// Classifier maps a raw user message to a Topic. Implementations must never
// fail: on any problem they return TopicNone.
type Classifier interface {
	Classify(ctx context.Context, message string) Topic
}

// Router is the single decision point for whether a chat turn triggers
// external retrieval: one classification, then at most one fetch.
type Router struct {
	classifier Classifier
	registry   *SourceRegistry
}

// NewRouter creates a Router over the given classifier and source registry.
func NewRouter(classifier Classifier, registry *SourceRegistry) *Router {
	return &Router{
		classifier: classifier,
		registry:   registry,
	}
}

// Route classifies the message and, when a source matches the topic, returns
// whatever that source fetched, unmodified. TopicNone and unregistered topics
// short-circuit without any network call.
func (r *Router) Route(ctx context.Context, message string) (string, bool) {
	topic := r.classifier.Classify(ctx, message)
	if topic == TopicNone {
		return "", false
	}

	src, ok := r.registry.Get(topic)
	if !ok {
		log.Printf("[Retrieval] no source registered for topic %s", topic)
		return "", false
	}

	log.Printf("[Retrieval] running source: %s", topic)
	content := src.Fetch(ctx)
	return content, content != ""
}
