// ABOUTME: CLI command to print or export a session's conversation history
// ABOUTME: Full ordered log, oldest-first, optionally as JSON for download
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyUserID string
	historyJSON   bool
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Show the conversation history for a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}

	cmd.Flags().StringVar(&historyUserID, "user", "default_user", "User identifier")
	cmd.Flags().BoolVar(&historyJSON, "json", false, "Print the full log as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, err := Setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	messages, err := app.Conversations.Export(historyUserID, args[0])
	if err != nil {
		return err
	}

	if historyJSON {
		out, err := json.MarshalIndent(messages, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(messages) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No messages in this session.")
		return nil
	}
	for _, msg := range messages {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Role, msg.Content)
	}
	return nil
}
