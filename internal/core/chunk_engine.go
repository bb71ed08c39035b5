// ABOUTME: ChunkEngine splits document text into overlapping fixed-size segments
// ABOUTME: Chunking is deterministic so re-ingestion produces identical chunk IDs
package core

import (
	"fmt"

	"github.com/harper/audit-assistant/internal/config"
	"github.com/harper/audit-assistant/internal/models"
)

// ChunkEngine produces fixed-size overlapping chunks with stable provenance
// metadata. It is a pure function over the input text: identical input and
// configuration always yield identical boundaries and IDs.
type ChunkEngine struct {
	chunkSize int
	overlap   int
}

// NewChunkEngine creates a ChunkEngine. Fails with InvalidConfig semantics
// when overlap >= chunkSize or chunkSize is not positive.
func NewChunkEngine(chunkSize, overlap int) (*ChunkEngine, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", config.ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < chunk size, got %d", config.ErrInvalidConfig, overlap)
	}
	return &ChunkEngine{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkDocument splits a document end-to-end with no gaps. Chunk i starts at
// i*(chunkSize-overlap) and extends up to chunkSize runes, clipped at the
// document end. Offsets are rune offsets into the raw text.
func (ce *ChunkEngine) ChunkDocument(doc models.Document) []models.Chunk {
	runes := []rune(doc.RawText)
	if len(runes) == 0 {
		return nil
	}

	stride := ce.chunkSize - ce.overlap
	var chunks []models.Chunk

	for i := 0; ; i++ {
		start := i * stride
		if start >= len(runes) {
			break
		}
		end := start + ce.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, models.Chunk{
			ID:             models.ChunkID(doc.ID, i),
			DocumentID:     doc.ID,
			Text:           string(runes[start:end]),
			StartOffset:    start,
			EndOffset:      end,
			SourceFilename: doc.Filename,
			Index:          i,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
