package retrieval

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Official UNAL pages each topic source reads from.
const (
	admisionesURL = "https://admisiones.unal.edu.co/"
	posgradosURL  = "https://posgrados.unal.edu.co/"
	programasURL  = "https://admisiones.unal.edu.co/pregrado/oferta-de-programas-curriculares/"
	materiasURL   = "https://sia.unal.edu.co/"
	seguridadURL  = "https://dfa.bogota.unal.edu.co/division-vigilancia-seguridad/"
)

// Source obtains authoritative content for one topic. Fetch never fails the
// chat turn: network or parse problems yield an empty string (or the topic's
// fixed fallback message) and the turn continues without enrichment. Fetched
// content is bounded to maxContentChars.
type Source interface {
	Fetch(ctx context.Context) string
}

// SourceRegistry maps topics to their Source implementations.
type SourceRegistry struct {
	sources map[Topic]Source
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sources: make(map[Topic]Source)}
}

// Register adds a source for a topic.
func (r *SourceRegistry) Register(topic Topic, src Source) {
	if _, exists := r.sources[topic]; exists {
		log.Printf("WARN [SourceRegistry] Topic '%s' is already registered. Overwriting.", topic)
	}
	r.sources[topic] = src
}

// Get retrieves the source for a topic, if any is registered.
func (r *SourceRegistry) Get(topic Topic) (Source, bool) {
	src, ok := r.sources[topic]
	return src, ok
}

// DefaultSources builds the registry with the standard university sources.
func DefaultSources(extractor *Extractor, searcher *Searcher) *SourceRegistry {
	pageClient := &http.Client{Timeout: 5 * time.Second}

	r := NewSourceRegistry()
	r.Register(TopicAdmisiones, &pageSource{
		client: pageClient,
		url:    admisionesURL,
		match:  hasClass("list-group-item"),
		limit:  10,
	})
	r.Register(TopicPosgrados, &pageSource{
		client: pageClient,
		url:    posgradosURL,
		match:  anyOf(isTag("h3", "h4", "p"), hasClass("list-group-item")),
		limit:  15,
	})
	r.Register(TopicProgramas, &pageSource{
		client:  pageClient,
		url:     programasURL,
		match:   hasClass("list-group-item"),
		exclude: "Créditos",
		limit:   20,
	})
	r.Register(TopicMaterias, &pageSource{
		client:  pageClient,
		url:     materiasURL,
		match:   anyOf(isTag("h3", "h4", "a", "p"), hasClass("list-group-item")),
		exclude: "Créditos",
		limit:   20,
	})
	r.Register(TopicSeguridad, &seguridadSource{extractor: extractor})
	r.Register(TopicCalendario, &calendarSource{searcher: searcher, extractor: extractor})
	return r
}

// pageSource GETs a fixed page and keeps a bounded list of matching element
// texts. Covers the topics whose official page is known up front.
type pageSource struct {
	client  *http.Client
	url     string
	match   nodeMatcher
	exclude string // drop texts containing this substring, when set
	limit   int
}

func (ps *pageSource) Fetch(ctx context.Context) string {
	doc, err := fetchDocument(ctx, ps.client, ps.url)
	if err != nil {
		log.Printf("[Retrieval] error scraping %s: %v", ps.url, err)
		return ""
	}

	var texts []string
	for _, n := range findAll(doc, ps.match) {
		text := nodeText(n)
		if text == "" {
			continue
		}
		if ps.exclude != "" && strings.Contains(text, ps.exclude) {
			continue
		}
		texts = append(texts, text)
		if len(texts) >= ps.limit {
			break
		}
	}

	return truncateChars(strings.Join(texts, "\n"), maxContentChars)
}

// seguridadSource reads the campus security division page through the full
// extractor, since its useful content is paragraph-level prose.
type seguridadSource struct {
	extractor *Extractor
}

func (s *seguridadSource) Fetch(ctx context.Context) string {
	content, err := s.extractor.Extract(ctx, seguridadURL)
	if err != nil || content == "" {
		if err != nil {
			log.Printf("[Retrieval] error reading security page: %v", err)
		}
		return "No pude leer la página de seguridad en este momento."
	}
	return truncateChars(fmt.Sprintf("FUENTE OFICIAL DE SEGURIDAD: %s\n\nINFORMACIÓN EXTRAÍDA:\n%s", seguridadURL, content), maxContentChars)
}

// calendarSource has no fixed page: it searches the web for the current
// academic calendar, takes only the first result, and reads that page.
type calendarSource struct {
	searcher  *Searcher
	extractor *Extractor
	year      int // zero means current year
}

func (c *calendarSource) Fetch(ctx context.Context) string {
	year := c.year
	if year == 0 {
		year = time.Now().Year()
	}
	query := fmt.Sprintf("Calendario Académico Sede Bogotá %d fechas detalladas", year)

	results, err := c.searcher.Search(ctx, query, 1)
	if err != nil {
		log.Printf("[Retrieval] calendar search failed: %v", err)
		return "Error buscando calendario."
	}
	if len(results) == 0 {
		return "No encontré resultados en la web."
	}

	top := results[0]
	content, err := c.extractor.Extract(ctx, top.URL)
	if err != nil || content == "" {
		// Fall back to the search snippet rather than failing the turn.
		return fmt.Sprintf("No pude leer la página completa, pero la búsqueda dice esto: %s (Link: %s)", top.Snippet, top.URL)
	}

	return truncateChars(fmt.Sprintf("FUENTE: %s\n\nCONTENIDO EXTRAÍDO DE LA PÁGINA:\n%s", top.URL, content), maxContentChars)
}
