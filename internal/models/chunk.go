// ABOUTME: Chunk is a bounded contiguous span of a document's text
// ABOUTME: Chunk IDs are derivable from (document ID, chunk index) for idempotent re-ingestion
package models

import "fmt"

// Chunk is a fixed-size overlapping segment of a document.
type Chunk struct {
	ID             string `json:"id"`
	DocumentID     string `json:"document_id"`
	Text           string `json:"text"`
	StartOffset    int    `json:"start_offset"`
	EndOffset      int    `json:"end_offset"`
	SourceFilename string `json:"source_filename"`
	Index          int    `json:"chunk_index"`
}

// ChunkID derives the stable chunk ID for a document and chunk index.
// Re-chunking the same document always yields the same IDs, which is what
// makes index upserts idempotent.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%04d", documentID, index)
}
