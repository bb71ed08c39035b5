// ABOUTME: ContextHydrator assembles the completion prompt from its sections
// ABOUTME: System instructions, then conversation window, then grounded context, then question
package core

import (
	"fmt"
	"strings"

	"github.com/harper/audit-assistant/internal/models"
)

// ContextHydrator builds prompts. Each part is demarcated so the completion
// model can distinguish instruction from dialogue history from retrieved fact.
type ContextHydrator struct {
	systemPrompt string
}

// NewContextHydrator creates a ContextHydrator with the static system prompt.
func NewContextHydrator(systemPrompt string) *ContextHydrator {
	return &ContextHydrator{systemPrompt: systemPrompt}
}

// Hydrate assembles the full prompt for one query.
func (ch *ContextHydrator) Hydrate(window []models.Message, grounded models.GroundedContext, question string) string {
	var sections []string

	// 1. System instructions (always first)
	sections = append(sections, "SYSTEM:\n"+ch.systemPrompt)

	// 2. Conversation window, oldest-first
	if len(window) > 0 {
		var history strings.Builder
		history.WriteString("CONVERSATION HISTORY:\n")
		for _, msg := range window {
			fmt.Fprintf(&history, "%s: %s\n", msg.Role, msg.Content)
		}
		sections = append(sections, strings.TrimRight(history.String(), "\n"))
	}

	// 3. Grounded context with citations, descending similarity
	if len(grounded.Results) > 0 {
		var context strings.Builder
		context.WriteString("CONTEXT DOCUMENTS:\n")
		for _, res := range grounded.Results {
			fmt.Fprintf(&context, "[source: %s]\n%s\n", res.SourceFilename, res.Text)
		}
		sections = append(sections, strings.TrimRight(context.String(), "\n"))
	}

	sections = append(sections, "QUESTION:\n"+question)

	return strings.Join(sections, "\n\n")
}
