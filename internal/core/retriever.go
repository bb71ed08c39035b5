// ABOUTME: Retriever embeds a query, searches the index, and applies the similarity gate
// ABOUTME: Results below the threshold never reach the completion model
package core

import (
	"context"
	"fmt"

	"github.com/harper/audit-assistant/internal/models"
)

// Embedder is the injected embedding capability. Vectors must be
// dimensionally consistent across all calls for a deployment.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// SearchIndex is the similarity-search side of the embedding index.
type SearchIndex interface {
	Search(queryEmbedding []float64, topK int) ([]models.RetrievalResult, error)
}

// Retriever produces grounded context for a query. Threshold gating lives
// here, not in the index: the gate is the hallucination-mitigation
// mechanism, and keeping the index a pure similarity engine lets other
// policies reuse it.
type Retriever struct {
	embedder  Embedder
	index     SearchIndex
	topK      int
	threshold float64
}

// NewRetriever creates a Retriever with the configured gate.
func NewRetriever(embedder Embedder, index SearchIndex, topK int, threshold float64) *Retriever {
	return &Retriever{
		embedder:  embedder,
		index:     index,
		topK:      topK,
		threshold: threshold,
	}
}

// Retrieve embeds the query, searches, and drops every result below the
// similarity threshold. An empty surviving set is flagged insufficient;
// the orchestrator must then answer with the fixed safe response rather
// than fabricate.
func (r *Retriever) Retrieve(ctx context.Context, queryText string) (models.GroundedContext, error) {
	queryEmbedding, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return models.GroundedContext{}, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.index.Search(queryEmbedding, r.topK)
	if err != nil {
		return models.GroundedContext{}, fmt.Errorf("index search failed: %w", err)
	}

	var grounded []models.RetrievalResult
	for _, res := range results {
		if res.Similarity < r.threshold {
			continue
		}
		grounded = append(grounded, res)
	}

	if len(grounded) == 0 {
		return models.GroundedContext{Insufficient: true}, nil
	}

	return models.GroundedContext{Results: grounded}, nil
}
