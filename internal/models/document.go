// ABOUTME: Document represents an ingested source file (PDF or TXT)
// ABOUTME: Documents are immutable; re-ingesting a path supersedes the prior version
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"
)

// Document is the raw text of a source file plus provenance metadata.
type Document struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	RawText    string    `json:"raw_text"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
}

// NewDocument creates a Document with a deterministic ID derived from the
// source path, so re-ingesting the same file overlays its previous chunks
// instead of duplicating them.
func NewDocument(sourcePath, rawText string) Document {
	return Document{
		ID:         DocumentID(sourcePath),
		SourcePath: sourcePath,
		RawText:    rawText,
		Filename:   filepath.Base(sourcePath),
		UploadTime: time.Now().UTC(),
	}
}

// DocumentID derives a stable ID from a source path.
func DocumentID(sourcePath string) string {
	sum := sha256.Sum256([]byte(sourcePath))
	return "doc_" + hex.EncodeToString(sum[:6])
}
