// ABOUTME: End-to-end tests over the real ingest and query pipeline
// ABOUTME: Real chunker and SQLite index, fake embedding and completion capabilities

package core

import (
	"context"
	"strings"
	"testing"

	"github.com/harper/audit-assistant/internal/config"
	"github.com/harper/audit-assistant/internal/models"
	"github.com/harper/audit-assistant/internal/storage/sqlite"
)

const fraudPolicy = "Duplicate invoices over $5,000 indicate fraud risk; require dual approval."

func newPipeline(t *testing.T, completer *fakeCompleter, log *memoryLog) (*Ingestor, *Assistant) {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := testConfig()
	index := sqlite.NewIndexStore(db, cfg.VectorDimension)
	documents := sqlite.NewDocumentStore(db)
	embedder := &fakeEmbedder{}

	chunker, err := NewChunkEngine(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}

	ingestor := NewIngestor(nil, chunker, embedder, index, documents)
	retriever := NewRetriever(embedder, index, cfg.TopK, cfg.SimilarityThreshold)
	return ingestor, NewAssistant(cfg, retriever, completer, log)
}

func TestPipeline_IngestThenQuery(t *testing.T) {
	completer := &fakeCompleter{answer: "Duplicate invoices over $5,000 indicate fraud risk."}
	ingestor, assistant := newPipeline(t, completer, newMemoryLog())

	doc := models.NewDocument("/docs/fraud_policy.txt", fraudPolicy)
	chunks, err := ingestor.IngestDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("IngestDocument() error = %v", err)
	}
	if chunks != 1 {
		t.Fatalf("got %d chunks for a short document, want 1", chunks)
	}

	result, err := assistant.Query(context.Background(), "What indicates fraud risk?", "alice", "s1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if result.Answer != completer.answer {
		t.Errorf("answer = %q", result.Answer)
	}
	if len(result.Sources) == 0 {
		t.Fatal("grounded answer must cite its sources")
	}
	if result.Sources[0].Filename != "fraud_policy.txt" {
		t.Errorf("source = %q, want fraud_policy.txt", result.Sources[0].Filename)
	}
	if result.LowConfidence {
		t.Error("an exact topic match should not be flagged low confidence")
	}

	prompt := completer.prompts[0]
	if !strings.Contains(prompt, "CONTEXT DOCUMENTS:") || !strings.Contains(prompt, fraudPolicy) {
		t.Error("prompt should carry the retrieved chunk text")
	}
}

func TestPipeline_EmptyCorpus(t *testing.T) {
	completer := &fakeCompleter{answer: "fabricated"}
	_, assistant := newPipeline(t, completer, newMemoryLog())

	result, err := assistant.Query(context.Background(), "What indicates fraud risk?", "alice", "s1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Answer != config.SafeResponse {
		t.Errorf("answer = %q, want the fixed safe response", result.Answer)
	}
	if completer.callCount() != 0 {
		t.Error("completion capability invoked despite empty corpus")
	}
}

func TestPipeline_OffTopicQueryGated(t *testing.T) {
	// The corpus is about fraud; an unrelated query embeds orthogonally and
	// nothing clears the similarity gate.
	completer := &fakeCompleter{answer: "fabricated"}
	ingestor, assistant := newPipeline(t, completer, newMemoryLog())

	doc := models.NewDocument("/docs/fraud_policy.txt", fraudPolicy)
	if _, err := ingestor.IngestDocument(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	result, err := assistant.Query(context.Background(), "What is the vacation policy?", "alice", "s1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Answer != config.SafeResponse {
		t.Errorf("answer = %q, want the safe response for an ungrounded question", result.Answer)
	}
	if completer.callCount() != 0 {
		t.Error("completion capability invoked for an ungrounded question")
	}
}

func TestPipeline_SessionCarriesHistory(t *testing.T) {
	completer := &fakeCompleter{answer: "Dual approval is required."}
	ingestor, assistant := newPipeline(t, completer, newMemoryLog())

	doc := models.NewDocument("/docs/fraud_policy.txt", fraudPolicy)
	if _, err := ingestor.IngestDocument(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	if _, err := assistant.Query(context.Background(), "What indicates fraud risk?", "alice", "s1"); err != nil {
		t.Fatalf("first query failed: %v", err)
	}
	if _, err := assistant.Query(context.Background(), "What approvals apply to fraud cases?", "alice", "s1"); err != nil {
		t.Fatalf("second query failed: %v", err)
	}

	if completer.callCount() != 2 {
		t.Fatalf("got %d completions, want 2", completer.callCount())
	}
	second := completer.prompts[1]
	if !strings.Contains(second, "user: What indicates fraud risk?") {
		t.Error("second prompt missing the first user message")
	}
	if !strings.Contains(second, "assistant: Dual approval is required.") {
		t.Error("second prompt missing the first assistant answer")
	}

	// A different session starts clean.
	if _, err := assistant.Query(context.Background(), "What indicates fraud risk?", "alice", "s2"); err != nil {
		t.Fatalf("new-session query failed: %v", err)
	}
	third := completer.prompts[2]
	if strings.Contains(third, "CONVERSATION HISTORY:") {
		t.Error("new session prompt should not carry another session's history")
	}
}
