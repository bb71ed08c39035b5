// ABOUTME: Sanitizer scans query input for prompt-injection patterns and PII
// ABOUTME: PII handling (redact vs reject) is a configuration policy choice
package core

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/harper/audit-assistant/internal/config"
)

// ErrUnsafeInput signals a query containing prompt-injection patterns.
var ErrUnsafeInput = errors.New("input rejected: possible prompt injection")

// ErrPIIRejected signals a query containing PII under the reject policy.
var ErrPIIRejected = errors.New("input rejected: contains personal data")

// piiRedacted replaces matched PII spans under the redact policy.
const piiRedacted = "[REDACTED]"

// injectionPatterns cover common prompt-override attempts. No filter is
// perfect; the system prompt and retrieval gating are the other layers.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|above|prior)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|above|prior)\s+(instructions?|prompts?)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|above|prior)\s+(instructions?|context)`),
	regexp.MustCompile(`(?i)^(pretend|act|behave|imagine)\s+(you\s+are|to\s+be|as\s+if|like)`),
	regexp.MustCompile(`(?i)^you\s+are\s+now\s+a`),
	regexp.MustCompile(`(?i)^new\s+(instruction|task|rule)\s*:`),
	regexp.MustCompile(`(?i)</?(system|instruction|prompt)>`),
	regexp.MustCompile(`(?i)do\s+anything\s+now`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)bypass\s+(safety|filter|restrictions?)`),
}

// piiPatterns match the identifier formats audit documents commonly leak.
var piiPatterns = []*regexp.Regexp{
	// US social security numbers
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	// Payment card numbers (13-16 digits, optional separators)
	regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{1,4}\b`),
	// Email addresses
	regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
	// Phone numbers
	regexp.MustCompile(`\b\+?\d{1,2}[ .\-]?\(?\d{3}\)?[ .\-]?\d{3}[ .\-]?\d{4}\b`),
}

// Sanitizer is the first step of the query state machine.
type Sanitizer struct {
	policy config.PIIPolicy
}

// NewSanitizer creates a Sanitizer with the configured PII policy.
func NewSanitizer(policy config.PIIPolicy) *Sanitizer {
	return &Sanitizer{policy: policy}
}

// Sanitize checks input for injection patterns and PII. Injection always
// rejects. PII either redacts in place or rejects, per policy. The returned
// string is the text safe to pass downstream.
func (s *Sanitizer) Sanitize(input string) (string, error) {
	for _, re := range injectionPatterns {
		if re.MatchString(input) {
			return "", fmt.Errorf("%w: matched %q", ErrUnsafeInput, re.String())
		}
	}

	clean := input
	for _, re := range piiPatterns {
		if !re.MatchString(clean) {
			continue
		}
		if s.policy == config.PIIReject {
			return "", ErrPIIRejected
		}
		clean = re.ReplaceAllString(clean, piiRedacted)
	}

	return clean, nil
}
