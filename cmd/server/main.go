// ABOUTME: Main entry point for the audit assistant MCP server with stdio transport
// ABOUTME: Wires config, stores, capabilities, and registers all tools
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/audit-assistant/internal/charm"
	"github.com/harper/audit-assistant/internal/config"
	"github.com/harper/audit-assistant/internal/core"
	"github.com/harper/audit-assistant/internal/llm"
	"github.com/harper/audit-assistant/internal/loader"
	"github.com/harper/audit-assistant/internal/mcp"
	"github.com/harper/audit-assistant/internal/storage"
	"github.com/harper/audit-assistant/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and completions will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = sqlite.DefaultDataDir()
	}
	db, err := sqlite.Open(filepath.Join(dataDir, "knowledge.db"))
	if err != nil {
		log.Fatalf("Failed to open knowledge store: %v", err)
	}
	defer func() { _ = db.Close() }()

	kv, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		log.Fatalf("Failed to open conversation log: %v", err)
	}
	defer func() { _ = kv.Close() }()

	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}

	chunker, err := core.NewChunkEngine(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}

	documents := sqlite.NewDocumentStore(db)
	index := sqlite.NewIndexStore(db, cfg.VectorDimension)
	conversations := storage.NewConversationStore(kv)
	fileLoader := loader.NewFileLoader()

	retriever := core.NewRetriever(client, index, cfg.TopK, cfg.SimilarityThreshold)
	assistant := core.NewAssistant(cfg, retriever, client, conversations)
	ingestor := core.NewIngestor(fileLoader, chunker, client, index, documents)
	exporter := sqlite.NewExporter(documents, index)

	server := mcpserver.NewMCPServer(
		"Audit Assistant",
		"0.1.0",
	)

	mcp.RegisterTools(server, assistant, ingestor, fileLoader, conversations, exporter)

	log.Println("Audit assistant MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
