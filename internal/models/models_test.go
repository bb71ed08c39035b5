// ABOUTME: Tests for the core data models
// ABOUTME: Covers derived IDs, message validation, and grounded-context helpers

package models

import (
	"strings"
	"testing"
)

func TestDocumentIDDeterministic(t *testing.T) {
	a := DocumentID("/docs/policy.txt")
	b := DocumentID("/docs/policy.txt")
	c := DocumentID("/docs/other.txt")

	if a != b {
		t.Errorf("same path produced different IDs: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different paths produced the same ID")
	}
	if !strings.HasPrefix(a, "doc_") {
		t.Errorf("ID = %q, want doc_ prefix", a)
	}
}

func TestChunkIDFormat(t *testing.T) {
	id := ChunkID("doc_abc123", 7)
	if id != "doc_abc123_chunk_0007" {
		t.Errorf("ChunkID = %q", id)
	}
	// Zero-padding keeps lexicographic order aligned with chunk order.
	if ChunkID("doc_abc123", 2) > ChunkID("doc_abc123", 10) {
		t.Error("chunk IDs do not sort in chunk order")
	}
}

func TestNewMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		content string
		wantErr bool
	}{
		{"valid user", RoleUser, "hello", false},
		{"valid assistant", RoleAssistant, "answer", false},
		{"unknown role", Role("system"), "hello", true},
		{"empty content", RoleUser, "", true},
		{"whitespace content", RoleUser, "   \n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.role, tt.content)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMessage() error = %v", err)
			}
			if msg.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
		})
	}
}

func TestGroundedContextHelpers(t *testing.T) {
	empty := GroundedContext{}
	if empty.TopSimilarity() != 0 {
		t.Errorf("empty TopSimilarity = %f, want 0", empty.TopSimilarity())
	}
	if len(empty.Sources()) != 0 {
		t.Error("empty context produced sources")
	}

	gc := GroundedContext{Results: []RetrievalResult{
		{ChunkID: "c0", Text: strings.Repeat("x", 300), SourceFilename: "long.txt", Similarity: 0.9},
		{ChunkID: "c1", Text: "short", SourceFilename: "short.txt", Similarity: 0.8},
	}}

	if gc.TopSimilarity() != 0.9 {
		t.Errorf("TopSimilarity = %f, want the first (best) result", gc.TopSimilarity())
	}

	sources := gc.Sources()
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Filename != "long.txt" || sources[1].Filename != "short.txt" {
		t.Errorf("source order not preserved: %+v", sources)
	}
	if !strings.HasSuffix(sources[0].Excerpt, "...") {
		t.Errorf("long excerpt not truncated: %q", sources[0].Excerpt)
	}
	if sources[1].Excerpt != "short" {
		t.Errorf("short excerpt altered: %q", sources[1].Excerpt)
	}
}
