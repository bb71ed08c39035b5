// ABOUTME: Document persistence: immutable rows, superseded on re-ingestion
// ABOUTME: Re-ingesting a path overwrites the row keyed by the path-derived ID
package sqlite

import (
	"database/sql"

	"github.com/harper/audit-assistant/internal/models"
)

// DocumentStore handles document persistence
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save inserts a document, replacing any prior version of the same path.
func (s *DocumentStore) Save(doc models.Document) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (id, source_path, filename, raw_text, upload_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			filename = excluded.filename,
			raw_text = excluded.raw_text,
			upload_time = excluded.upload_time
	`, doc.ID, doc.SourcePath, doc.Filename, doc.RawText, doc.UploadTime)
	return err
}

// Get retrieves a document by ID, or nil if absent.
func (s *DocumentStore) Get(id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRow(`
		SELECT id, source_path, filename, raw_text, upload_time
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.SourcePath, &doc.Filename, &doc.RawText, &doc.UploadTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// All returns every document ordered by ID.
func (s *DocumentStore) All() ([]models.Document, error) {
	rows, err := s.db.Query(`
		SELECT id, source_path, filename, raw_text, upload_time
		FROM documents
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.SourcePath, &doc.Filename, &doc.RawText, &doc.UploadTime); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}
