package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubClassifier struct {
	topic Topic
}

func (s *stubClassifier) Classify(ctx context.Context, message string) Topic {
	return s.topic
}

type stubSource struct {
	content string
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context) string {
	s.calls++
	return s.content
}

func TestRouteFetchesMatchingSource(t *testing.T) {
	src := &stubSource{content: "horarios | fechas | requisitos"}
	registry := NewSourceRegistry()
	registry.Register(TopicAdmisiones, src)

	router := NewRouter(&stubClassifier{topic: TopicAdmisiones}, registry)
	content, scraped := router.Route(context.Background(), "¿Cómo me inscribo a pregrado?")

	assert.True(t, scraped)
	assert.Equal(t, "horarios | fechas | requisitos", content)
	assert.Equal(t, 1, src.calls)
}

func TestRouteNoneShortCircuits(t *testing.T) {
	src := &stubSource{content: "nunca debería pedirse"}
	registry := NewSourceRegistry()
	registry.Register(TopicAdmisiones, src)

	router := NewRouter(&stubClassifier{topic: TopicNone}, registry)
	content, scraped := router.Route(context.Background(), "Hola, ¿cómo estás?")

	assert.False(t, scraped)
	assert.Empty(t, content)
	assert.Zero(t, src.calls, "no source should run for an off-topic message")
}

func TestRouteUnregisteredTopic(t *testing.T) {
	router := NewRouter(&stubClassifier{topic: TopicSeguridad}, NewSourceRegistry())
	content, scraped := router.Route(context.Background(), "¿Es seguro el campus?")

	assert.False(t, scraped)
	assert.Empty(t, content)
}

func TestRouteEmptyFetchReportsNotScraped(t *testing.T) {
	src := &stubSource{content: ""}
	registry := NewSourceRegistry()
	registry.Register(TopicMaterias, src)

	router := NewRouter(&stubClassifier{topic: TopicMaterias}, registry)
	content, scraped := router.Route(context.Background(), "¿Qué materias puedo ver?")

	assert.False(t, scraped)
	assert.Empty(t, content)
	assert.Equal(t, 1, src.calls)
}
