// ABOUTME: MCP tool definitions and registration for the audit assistant server
// ABOUTME: Exposes ask, get_history, ingest_documents, and export_knowledge
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/audit-assistant/internal/core"
	"github.com/harper/audit-assistant/internal/storage"
	"github.com/harper/audit-assistant/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, assistant *core.Assistant, ingestor *core.Ingestor, loader FileLister, conversations *storage.ConversationStore, exporter *sqlite.Exporter) *Handlers {
	handlers := &Handlers{
		assistant:     assistant,
		ingestor:      ingestor,
		loader:        loader,
		conversations: conversations,
		exporter:      exporter,
	}

	// 1. ask - answer a question grounded in the ingested corpus
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask the audit assistant a question. Answers are grounded in the ingested audit/compliance documents and cite their sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User identifier (default: default_user)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier; a new one is generated if omitted",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)

	// 2. get_history - full ordered conversation log for a session
	server.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "Retrieve the full conversation history for a (user, session) pair.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User identifier (default: default_user)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetHistory)

	// 3. ingest_documents - load, chunk, embed, and index files
	server.AddTool(mcp.Tool{
		Name:        "ingest_documents",
		Description: "Ingest PDF/TXT documents from a directory into the knowledge base. Re-ingesting a file replaces its previous chunks.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dir": map[string]interface{}{
					"type":        "string",
					"description": "Directory containing .pdf and .txt files",
				},
			},
			Required: []string{"dir"},
		},
	}, handlers.IngestDocuments)

	// 4. export_knowledge - snapshot documents + index to a file
	server.AddTool(mcp.Tool{
		Name:        "export_knowledge",
		Description: "Export the knowledge base (documents and embedding index) to a JSON or YAML file.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Output file path (.json, .yaml)",
				},
			},
			Required: []string{"path"},
		},
	}, handlers.ExportKnowledge)

	return handlers
}
