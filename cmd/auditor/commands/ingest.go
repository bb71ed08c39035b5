// ABOUTME: CLI command to ingest documents into the knowledge base
// ABOUTME: Loads, chunks, embeds, and indexes PDF/TXT files from a directory
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Ingest PDF/TXT documents from a directory",
		Long: `Ingest audit documents into the knowledge base.

Each file is chunked, embedded, and indexed. Re-ingesting a file replaces
its previous chunks; files that fail to load are skipped with a warning.

Examples:
  auditor ingest ./data
  auditor ingest /srv/audit/policies`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	app, err := Setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	paths, err := app.Loader.ListSupported(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No .pdf or .txt files found in %s\n", args[0])
		return nil
	}

	ingested, err := app.Ingestor.IngestPaths(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("ingestion failed after %d documents: %w", ingested, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d of %d documents from %s\n", ingested, len(paths), args[0])
	return nil
}
