// ABOUTME: CLI command to export the knowledge base snapshot
// ABOUTME: Writes documents plus index entries to JSON or YAML
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the knowledge base to a file",
		Long: `Export a portable snapshot of the knowledge base: every ingested
document plus every embedding-index entry. The format follows the file
extension (.json, .yaml).

Examples:
  auditor export knowledge_base.json
  auditor export snapshot.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := Setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Exporter.WriteFile(args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Knowledge base exported to %s\n", args[0])
	return nil
}
