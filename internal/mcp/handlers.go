// ABOUTME: MCP tool handler implementations for the audit assistant server
// ABOUTME: Maps the core error taxonomy onto tool results
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/audit-assistant/internal/core"
	"github.com/harper/audit-assistant/internal/storage"
	"github.com/harper/audit-assistant/internal/storage/sqlite"
)

// FileLister enumerates ingestable files in a directory.
type FileLister interface {
	ListSupported(dir string) ([]string, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	assistant     *core.Assistant
	ingestor      *core.Ingestor
	loader        FileLister
	conversations *storage.ConversationStore
	exporter      *sqlite.Exporter
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	userID := request.GetString("user_id", "default_user")
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	result, err := h.assistant.Query(ctx, question, userID, sessionID)
	if err != nil {
		var rateErr *core.RateLimitedError
		switch {
		case errors.As(err, &rateErr):
			return mcp.NewToolResultError(fmt.Sprintf("rate limited: retry after %s", rateErr.RetryAfter)), nil
		case errors.Is(err, core.ErrUnsafeInput), errors.Is(err, core.ErrPIIRejected):
			return mcp.NewToolResultError(err.Error()), nil
		case errors.Is(err, core.ErrCompletionUnavailable):
			return mcp.NewToolResultError("the completion service is unavailable, try again later"), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
	}

	out, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// GetHistory handles the get_history tool
func (h *Handlers) GetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	userID := request.GetString("user_id", "default_user")

	history, err := h.conversations.Export(userID, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}

	out, err := json.Marshal(map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
		"history":    history,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal history: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// IngestDocuments handles the ingest_documents tool
func (h *Handlers) IngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("dir")
	if err != nil {
		return mcp.NewToolResultError("dir argument is required and must be a string"), nil
	}

	paths, err := h.loader.ListSupported(dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list directory: %v", err)), nil
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no .pdf or .txt files found in %s", dir)), nil
	}

	ingested, err := h.ingestor.IngestPaths(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed after %d documents: %v", ingested, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("ingested %d of %d documents from %s", ingested, len(paths), dir)), nil
}

// ExportKnowledge handles the export_knowledge tool
func (h *Handlers) ExportKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}

	if err := h.exporter.WriteFile(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("knowledge base exported to %s", path)), nil
}
