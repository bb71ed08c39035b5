// ABOUTME: SQLite schema for the document and embedding-index store
// ABOUTME: One row per document, one row per index entry keyed by chunk ID
package sqlite

// Schema creates the documents and index_entries tables.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	filename TEXT NOT NULL,
	raw_text TEXT NOT NULL,
	upload_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS index_entries (
	chunk_id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	source_filename TEXT NOT NULL,
	text TEXT NOT NULL,
	embedding BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_document ON index_entries(document_id);
`
