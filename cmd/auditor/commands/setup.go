// ABOUTME: Shared wiring for CLI commands: config, stores, capabilities, assistant
// ABOUTME: Every command builds the same object graph from the validated config
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/harper/audit-assistant/internal/charm"
	"github.com/harper/audit-assistant/internal/config"
	"github.com/harper/audit-assistant/internal/core"
	"github.com/harper/audit-assistant/internal/llm"
	"github.com/harper/audit-assistant/internal/loader"
	"github.com/harper/audit-assistant/internal/storage"
	"github.com/harper/audit-assistant/internal/storage/sqlite"
)

// App bundles the wired components a command needs.
type App struct {
	Config        *config.Config
	Assistant     *core.Assistant
	Ingestor      *core.Ingestor
	Loader        *loader.FileLoader
	Conversations *storage.ConversationStore
	Exporter      *sqlite.Exporter

	db *sqlite.DB
	kv *charm.Client
}

// Setup loads config and wires the full object graph. withLLM controls
// whether the OpenAI-backed capabilities are required; ingest and ask need
// them, history and export do not.
func Setup(withLLM bool) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = sqlite.DefaultDataDir()
	}
	db, err := sqlite.Open(filepath.Join(dataDir, "knowledge.db"))
	if err != nil {
		return nil, fmt.Errorf("opening knowledge store: %w", err)
	}

	kv, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening conversation log: %w", err)
	}

	documents := sqlite.NewDocumentStore(db)
	index := sqlite.NewIndexStore(db, cfg.VectorDimension)
	conversations := storage.NewConversationStore(kv)
	fileLoader := loader.NewFileLoader()

	app := &App{
		Config:        cfg,
		Loader:        fileLoader,
		Conversations: conversations,
		Exporter:      sqlite.NewExporter(documents, index),
		db:            db,
		kv:            kv,
	}

	if withLLM {
		client, err := llm.NewOpenAIClient(cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}

		chunker, err := core.NewChunkEngine(cfg.ChunkSize, cfg.ChunkOverlap)
		if err != nil {
			_ = app.Close()
			return nil, err
		}

		retriever := core.NewRetriever(client, index, cfg.TopK, cfg.SimilarityThreshold)
		app.Assistant = core.NewAssistant(cfg, retriever, client, conversations)
		app.Ingestor = core.NewIngestor(fileLoader, chunker, client, index, documents)
	}

	return app, nil
}

// Close releases the underlying stores.
func (a *App) Close() error {
	var first error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			first = err
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
