// ABOUTME: Index entry and retrieval result models for vector search
// ABOUTME: IndexEntry is persisted per chunk; RetrievalResult is ephemeral per query
package models

import "time"

// IndexEntry is the stored unit of the embedding index: the chunk text,
// its vector, and provenance metadata, keyed by chunk ID. An entry is
// replaced whole on re-ingestion, never partially updated.
type IndexEntry struct {
	ChunkID        string    `json:"chunk_id"`
	DocumentID     string    `json:"document_id"`
	Embedding      []float64 `json:"embedding"`
	Text           string    `json:"text"`
	SourceFilename string    `json:"source_filename"`
	ChunkIndex     int       `json:"chunk_index"`
	CreatedAt      time.Time `json:"created_at"`
}

// RetrievalResult is a single similarity-search hit.
type RetrievalResult struct {
	ChunkID        string  `json:"chunk_id"`
	Text           string  `json:"text"`
	SourceFilename string  `json:"source_filename"`
	Similarity     float64 `json:"similarity_score"`
}

// Source is a citation attached to an answer.
type Source struct {
	Filename string `json:"filename"`
	Excerpt  string `json:"excerpt"`
}

// GroundedContext is the retriever's output: the hits that cleared the
// similarity gate, in descending-similarity order. Insufficient is set
// when nothing cleared the gate; the orchestrator must then answer with
// the fixed safe response instead of calling the completion model.
type GroundedContext struct {
	Results      []RetrievalResult `json:"results"`
	Insufficient bool              `json:"insufficient"`
}

// TopSimilarity returns the best similarity score, or 0 for an empty context.
func (gc GroundedContext) TopSimilarity() float64 {
	if len(gc.Results) == 0 {
		return 0
	}
	return gc.Results[0].Similarity
}

// Sources returns citations for the grounded results, preserving order.
func (gc GroundedContext) Sources() []Source {
	sources := make([]Source, 0, len(gc.Results))
	for _, r := range gc.Results {
		sources = append(sources, Source{
			Filename: r.SourceFilename,
			Excerpt:  excerpt(r.Text, 200),
		})
	}
	return sources
}

// excerpt truncates text to at most n runes for citation display.
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// QueryResult is the orchestrator's answer to a single query.
type QueryResult struct {
	Answer        string   `json:"answer"`
	Sources       []Source `json:"sources"`
	LowConfidence bool     `json:"low_confidence"`
	SessionID     string   `json:"session_id"`
}
