// ABOUTME: CLI command to ask a grounded question
// ABOUTME: Prints the answer with its cited sources and confidence flag
package commands

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/audit-assistant/internal/core"
)

var (
	askUserID    string
	askSessionID string
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question grounded in the ingested documents",
		Long: `Ask the assistant a question. The answer is grounded in retrieved
document chunks and cites its sources. Keep the same --session across
calls to carry conversation history into follow-up questions.

Examples:
  auditor ask "What indicates fraud risk?"
  auditor ask --user alice --session review-42 "And what approvals apply?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askUserID, "user", "default_user", "User identifier for rate limiting and history")
	cmd.Flags().StringVar(&askSessionID, "session", "", "Session identifier (new one generated if omitted)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	app, err := Setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	sessionID := askSessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	result, err := app.Assistant.Query(cmd.Context(), args[0], askUserID, sessionID)
	if err != nil {
		var rateErr *core.RateLimitedError
		if errors.As(err, &rateErr) {
			return fmt.Errorf("rate limited, retry after %s", rateErr.RetryAfter)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
	if len(result.Sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		for _, src := range result.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", src.Filename, src.Excerpt)
		}
	}
	if result.LowConfidence {
		fmt.Fprintln(cmd.OutOrStdout(), "\n(low confidence: verify against the source documents)")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nSession: %s\n", result.SessionID)
	return nil
}
