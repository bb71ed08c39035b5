// ABOUTME: Tests for knowledge base export
// ABOUTME: Verifies snapshot counts, re-ingestion stability, and file formats

package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/harper/audit-assistant/internal/models"
)

func seedKnowledgeBase(t *testing.T, docs *DocumentStore, index *IndexStore) (int, int) {
	t.Helper()
	paths := map[string]int{
		"/docs/fraud.txt":  3,
		"/docs/policy.txt": 2,
	}
	totalChunks := 0
	for path, chunks := range paths {
		doc := models.NewDocument(path, strings.Repeat("content ", 50))
		if err := docs.Save(doc); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < chunks; i++ {
			chunk := models.Chunk{
				ID:             models.ChunkID(doc.ID, i),
				DocumentID:     doc.ID,
				Text:           "chunk text",
				SourceFilename: doc.Filename,
				Index:          i,
			}
			if err := index.Upsert(chunk, []float64{1, 0, 0}); err != nil {
				t.Fatal(err)
			}
		}
		totalChunks += chunks
	}
	return len(paths), totalChunks
}

func TestExportAllCounts(t *testing.T) {
	db := testDB(t)
	docs := NewDocumentStore(db)
	index := NewIndexStore(db, 3)
	wantDocs, wantChunks := seedKnowledgeBase(t, docs, index)

	exporter := NewExporter(docs, index)
	data, err := exporter.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	if len(data.Documents) != wantDocs {
		t.Errorf("exported %d documents, want %d", len(data.Documents), wantDocs)
	}
	if len(data.Index) != wantChunks {
		t.Errorf("exported %d index entries, want %d", len(data.Index), wantChunks)
	}
	if data.Version != "1.0" || data.Tool == "" {
		t.Errorf("snapshot metadata = %q/%q", data.Version, data.Tool)
	}
}

func TestExportStableAcrossReingest(t *testing.T) {
	db := testDB(t)
	docs := NewDocumentStore(db)
	index := NewIndexStore(db, 3)
	wantDocs, wantChunks := seedKnowledgeBase(t, docs, index)
	// Ingesting the same corpus again must not grow the export.
	seedKnowledgeBase(t, docs, index)

	data, err := NewExporter(docs, index).ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	if len(data.Documents) != wantDocs {
		t.Errorf("re-ingestion duplicated documents: %d, want %d", len(data.Documents), wantDocs)
	}
	if len(data.Index) != wantChunks {
		t.Errorf("re-ingestion duplicated index entries: %d, want %d", len(data.Index), wantChunks)
	}
}

func TestWriteFileFormats(t *testing.T) {
	db := testDB(t)
	docs := NewDocumentStore(db)
	index := NewIndexStore(db, 3)
	seedKnowledgeBase(t, docs, index)
	exporter := NewExporter(docs, index)
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "export.json")
		if err := exporter.WriteFile(path); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var data ExportData
		if err := json.Unmarshal(raw, &data); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(data.Documents) == 0 || len(data.Index) == 0 {
			t.Error("JSON export is missing content")
		}
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "export.yaml")
		if err := exporter.WriteFile(path); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var data ExportData
		if err := yaml.Unmarshal(raw, &data); err != nil {
			t.Fatalf("export is not valid YAML: %v", err)
		}
		if len(data.Documents) == 0 || len(data.Index) == 0 {
			t.Error("YAML export is missing content")
		}
	})
}
