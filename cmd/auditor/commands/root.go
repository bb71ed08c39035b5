// ABOUTME: Root CLI command for the audit assistant
// ABOUTME: Wires subcommands and global flags
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auditor",
		Short: "Grounded question answering over audit and compliance documents",
		Long: `auditor is a retrieval-augmented assistant for audit and compliance
documents. Ingest PDFs and text files, then ask questions; every answer
is grounded in retrieved document chunks and cites its sources. Questions
the corpus cannot support get a fixed safe response instead of a guess.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
