// ABOUTME: Ingestor runs the ingestion path: load, chunk, embed, upsert
// ABOUTME: Per-document failures are logged and skipped; the batch continues
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/harper/audit-assistant/internal/models"
)

// DocumentLoader is the injected loader collaborator (PDF/TXT parsing is
// its problem, not ours).
type DocumentLoader interface {
	Load(path string) (models.Document, error)
}

// UpsertIndex is the write side of the embedding index.
type UpsertIndex interface {
	Upsert(chunk models.Chunk, embedding []float64) error
}

// DocumentSink persists the immutable source documents.
type DocumentSink interface {
	Save(doc models.Document) error
}

// Ingestor drives document ingestion. It may run concurrently with queries;
// each index upsert is atomic, so an in-flight search sees either the old
// or the new entry, never a torn one.
type Ingestor struct {
	loader    DocumentLoader
	chunker   *ChunkEngine
	embedder  Embedder
	index     UpsertIndex
	documents DocumentSink
}

// NewIngestor wires the ingestion path.
func NewIngestor(loader DocumentLoader, chunker *ChunkEngine, embedder Embedder, index UpsertIndex, documents DocumentSink) *Ingestor {
	return &Ingestor{
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		documents: documents,
	}
}

// IngestDocument chunks, embeds, and upserts one document. Chunk IDs are
// deterministic, so re-ingesting the same document overlays its entries.
func (in *Ingestor) IngestDocument(ctx context.Context, doc models.Document) (int, error) {
	if err := in.documents.Save(doc); err != nil {
		return 0, fmt.Errorf("failed to save document %s: %w", doc.Filename, err)
	}

	chunks := in.chunker.ChunkDocument(doc)
	for _, chunk := range chunks {
		embedding, err := in.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %s: %w", chunk.ID, err)
		}
		if err := in.index.Upsert(chunk, embedding); err != nil {
			return 0, fmt.Errorf("failed to index chunk %s: %w", chunk.ID, err)
		}
	}

	return len(chunks), nil
}

// IngestPaths loads and ingests a batch of files. A file that fails to load
// is logged and skipped; it does not abort the batch. Returns the number of
// documents ingested.
func (in *Ingestor) IngestPaths(ctx context.Context, paths []string) (int, error) {
	ingested := 0
	for _, path := range paths {
		doc, err := in.loader.Load(path)
		if err != nil {
			log.Printf("Warning: skipping %s: %v", path, err)
			continue
		}

		if _, err := in.IngestDocument(ctx, doc); err != nil {
			return ingested, err
		}
		ingested++
	}
	return ingested, nil
}
