// ABOUTME: Knowledge base export: snapshot of documents plus index entries
// ABOUTME: Supports JSON and YAML output; read-only over the underlying stores
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/audit-assistant/internal/models"
)

// ExportData is the portable snapshot of the knowledge base.
type ExportData struct {
	Version    string              `yaml:"version" json:"version"`
	ExportedAt string              `yaml:"exported_at" json:"exported_at"`
	Tool       string              `yaml:"tool" json:"tool"`
	Documents  []ExportDocument    `yaml:"documents" json:"documents"`
	Index      []models.IndexEntry `yaml:"index" json:"index"`
}

// ExportDocument is document metadata plus text for export.
type ExportDocument struct {
	ID         string `yaml:"id" json:"id"`
	SourcePath string `yaml:"source_path" json:"source_path"`
	Filename   string `yaml:"filename" json:"filename"`
	RawText    string `yaml:"raw_text" json:"raw_text"`
	UploadTime string `yaml:"upload_time" json:"upload_time"`
}

// Exporter produces read-only snapshots of the knowledge base. It never
// mutates the underlying stores; given the same state the snapshot is
// deterministic (stores return rows ordered by ID).
type Exporter struct {
	documents *DocumentStore
	index     *IndexStore
}

// NewExporter creates an Exporter over the given stores.
func NewExporter(documents *DocumentStore, index *IndexStore) *Exporter {
	return &Exporter{documents: documents, index: index}
}

// ExportAll snapshots every document and index entry.
func (e *Exporter) ExportAll() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tool:       "audit-assistant",
	}

	docs, err := e.documents.All()
	if err != nil {
		return nil, fmt.Errorf("failed to export documents: %w", err)
	}
	for _, doc := range docs {
		data.Documents = append(data.Documents, ExportDocument{
			ID:         doc.ID,
			SourcePath: doc.SourcePath,
			Filename:   doc.Filename,
			RawText:    doc.RawText,
			UploadTime: doc.UploadTime.Format(time.RFC3339),
		})
	}

	entries, err := e.index.ExportAll()
	if err != nil {
		return nil, fmt.Errorf("failed to export index: %w", err)
	}
	data.Index = entries

	return data, nil
}

// WriteFile exports the knowledge base to the given path. The format is
// chosen by extension: .yaml/.yml for YAML, anything else JSON.
func (e *Exporter) WriteFile(path string) error {
	data, err := e.ExportAll()
	if err != nil {
		return err
	}

	var (
		out []byte
		ext = strings.ToLower(filepath.Ext(path))
	)
	switch ext {
	case ".yaml", ".yml":
		out, err = yaml.Marshal(data)
	default:
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
