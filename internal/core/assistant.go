// ABOUTME: Assistant orchestrates one query: sanitize, rate-check, retrieve, complete, record
// ABOUTME: Terminal on first success or first fatal error; no step may fabricate an answer
package core

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/harper/audit-assistant/internal/config"
	"github.com/harper/audit-assistant/internal/models"
)

// ErrCompletionUnavailable is surfaced after the completion capability has
// exhausted its retries. The conversation is not updated in that case.
var ErrCompletionUnavailable = errors.New("completion unavailable")

// Completer is the injected completion capability.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ConversationLog is the slice of the conversation store the assistant uses.
type ConversationLog interface {
	Append(userID, sessionID string, msg models.Message) error
	GetWindow(userID, sessionID string, maxMessages int) ([]models.Message, error)
}

// Assistant is the RAG orchestrator.
type Assistant struct {
	sanitizer     *Sanitizer
	governor      *Governor
	retriever     *Retriever
	hydrator      *ContextHydrator
	completer     Completer
	conversations ConversationLog

	windowSize          int
	confidenceThreshold float64
}

// NewAssistant wires the orchestrator from its parts and the validated config.
func NewAssistant(cfg *config.Config, retriever *Retriever, completer Completer, conversations ConversationLog) *Assistant {
	return &Assistant{
		sanitizer:           NewSanitizer(cfg.PIIPolicy),
		governor:            NewGovernor(cfg.RateLimit),
		retriever:           retriever,
		hydrator:            NewContextHydrator(cfg.SystemPrompt),
		completer:           completer,
		conversations:       conversations,
		windowSize:          cfg.WindowSize,
		confidenceThreshold: cfg.ConfidenceThreshold,
	}
}

// Query runs the per-query state machine and returns the answer with its
// sources. The session lock is never held across the embedding or
// completion calls; only the Append/GetWindow calls take it.
func (a *Assistant) Query(ctx context.Context, question, userID, sessionID string) (models.QueryResult, error) {
	// 1. Sanitize
	clean, err := a.sanitizer.Sanitize(question)
	if err != nil {
		return models.QueryResult{}, err
	}

	// 2. Rate-check
	if err := a.governor.Check(userID); err != nil {
		return models.QueryResult{}, err
	}

	// 3. Retrieve
	grounded, err := a.retriever.Retrieve(ctx, clean)
	if err != nil {
		return models.QueryResult{}, err
	}

	// Insufficient context short-circuits to the fixed safe response; the
	// completion capability is never invoked for ungrounded questions.
	if grounded.Insufficient {
		result := models.QueryResult{
			Answer:        config.SafeResponse,
			Sources:       []models.Source{},
			LowConfidence: true,
			SessionID:     sessionID,
		}
		if err := a.record(userID, sessionID, clean, result.Answer); err != nil {
			return models.QueryResult{}, err
		}
		return result, nil
	}

	// 4. Assemble prompt
	window, err := a.conversations.GetWindow(userID, sessionID, a.windowSize)
	if err != nil {
		return models.QueryResult{}, fmt.Errorf("failed to read conversation window: %w", err)
	}
	prompt := a.hydrator.Hydrate(window, grounded, clean)

	// Honor cancellation before committing to the completion call; once the
	// call is in flight it runs to its own timeout.
	if err := ctx.Err(); err != nil {
		return models.QueryResult{}, err
	}

	// 5. Complete (retries live inside the capability)
	answer, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return models.QueryResult{}, fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}

	// 6. Record both sides before returning
	if err := a.record(userID, sessionID, clean, answer); err != nil {
		return models.QueryResult{}, err
	}

	// 7. Confidence flag from retrieval scores: passing the base gate is not
	// the same as being confidently grounded.
	return models.QueryResult{
		Answer:        answer,
		Sources:       grounded.Sources(),
		LowConfidence: grounded.TopSimilarity() < a.confidenceThreshold,
		SessionID:     sessionID,
	}, nil
}

// record appends the user question and the produced answer to the session log.
func (a *Assistant) record(userID, sessionID, question, answer string) error {
	userMsg, err := models.NewMessage(models.RoleUser, question)
	if err != nil {
		return err
	}
	if err := a.conversations.Append(userID, sessionID, userMsg); err != nil {
		return fmt.Errorf("failed to record user message: %w", err)
	}

	assistantMsg, err := models.NewMessage(models.RoleAssistant, answer)
	if err != nil {
		return err
	}
	if err := a.conversations.Append(userID, sessionID, assistantMsg); err != nil {
		// The user message is already in; surface the failure rather than
		// leave the caller thinking both sides were recorded.
		log.Printf("Warning: assistant message append failed for %s/%s: %v", userID, sessionID, err)
		return fmt.Errorf("failed to record assistant message: %w", err)
	}
	return nil
}
