// ABOUTME: Embedding index backed by SQLite: upsert, cosine search, export
// ABOUTME: Vectors are stored as BLOBs; similarity is computed in Go
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harper/audit-assistant/internal/models"
)

// ErrDimensionMismatch signals a stored or queried vector with the wrong
// dimension. This is fatal: it means the embedding model changed and the
// corpus needs full re-ingestion.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ErrInvalidArgument signals a caller error such as topK < 1.
var ErrInvalidArgument = errors.New("invalid argument")

// IndexStore is the embedding index. It is a pure similarity engine:
// it never applies thresholds, which keeps it reusable by any gating
// policy layered on top.
type IndexStore struct {
	db        *DB
	dimension int
}

// NewIndexStore creates an IndexStore expecting vectors of the given dimension.
func NewIndexStore(db *DB, dimension int) *IndexStore {
	return &IndexStore{db: db, dimension: dimension}
}

// Upsert inserts or replaces the entry keyed by chunk ID. The write is a
// single statement, so a concurrent search never observes a half-written
// entry. Idempotent under identical arguments.
func (s *IndexStore) Upsert(chunk models.Chunk, embedding []float64) error {
	if len(embedding) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(embedding))
	}

	_, err := s.db.Exec(`
		INSERT INTO index_entries (chunk_id, document_id, chunk_index, source_filename, text, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			chunk_index = excluded.chunk_index,
			source_filename = excluded.source_filename,
			text = excluded.text,
			embedding = excluded.embedding
	`, chunk.ID, chunk.DocumentID, chunk.Index, chunk.SourceFilename, chunk.Text, vectorToBlob(embedding), time.Now().UTC())

	return err
}

// Search returns the topK entries by descending cosine similarity to the
// query vector. Ties are broken by ascending chunk ID for determinism.
func (s *IndexStore) Search(queryEmbedding []float64, topK int) ([]models.RetrievalResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", ErrInvalidArgument, topK)
	}
	if len(queryEmbedding) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(queryEmbedding))
	}

	rows, err := s.db.Query(`
		SELECT chunk_id, source_filename, text, embedding
		FROM index_entries
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.RetrievalResult
	for rows.Next() {
		var (
			r    models.RetrievalResult
			blob []byte
		)
		if err := rows.Scan(&r.ChunkID, &r.SourceFilename, &r.Text, &blob); err != nil {
			return nil, err
		}

		vector := blobToVector(blob)
		if len(vector) != s.dimension {
			return nil, fmt.Errorf("%w: stored entry %s has dimension %d, expected %d",
				ErrDimensionMismatch, r.ChunkID, len(vector), s.dimension)
		}

		r.Similarity = cosineSimilarity(queryEmbedding, vector)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored index entries.
func (s *IndexStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM index_entries`).Scan(&n)
	return n, err
}

// ExportAll returns every index entry ordered by chunk ID. Read-only and
// deterministic given the same underlying state.
func (s *IndexStore) ExportAll() ([]models.IndexEntry, error) {
	rows, err := s.db.Query(`
		SELECT chunk_id, document_id, chunk_index, source_filename, text, embedding, created_at
		FROM index_entries
		ORDER BY chunk_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []models.IndexEntry
	for rows.Next() {
		var (
			e    models.IndexEntry
			blob []byte
		)
		if err := rows.Scan(&e.ChunkID, &e.DocumentID, &e.ChunkIndex, &e.SourceFilename, &e.Text, &blob, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Embedding = blobToVector(blob)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get retrieves a single entry by chunk ID, or nil if absent.
func (s *IndexStore) Get(chunkID string) (*models.IndexEntry, error) {
	var (
		e    models.IndexEntry
		blob []byte
	)
	err := s.db.QueryRow(`
		SELECT chunk_id, document_id, chunk_index, source_filename, text, embedding, created_at
		FROM index_entries
		WHERE chunk_id = ?
	`, chunkID).Scan(&e.ChunkID, &e.DocumentID, &e.ChunkIndex, &e.SourceFilename, &e.Text, &blob, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Embedding = blobToVector(blob)
	return &e, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// vectorToBlob encodes a float64 vector as little-endian bytes
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector decodes little-endian bytes back into a float64 vector
func blobToVector(blob []byte) []float64 {
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}
