// ABOUTME: Shared test fakes for the embedding, search, and completion capabilities
// ABOUTME: Deterministic keyword-based embeddings stand in for the real model

package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harper/audit-assistant/internal/models"
)

// fakeEmbedder maps text to one of two orthogonal unit vectors: texts
// mentioning fraud land on one axis, everything else on the other. Cosine
// similarity is then 1.0 for matching topics and 0.0 otherwise.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.fail != nil {
		return nil, f.fail
	}
	if strings.Contains(strings.ToLower(text), "fraud") {
		return []float64{1, 0, 0}, nil
	}
	return []float64{0, 1, 0}, nil
}

// fakeIndex returns canned results and records upserts in a map keyed by
// chunk ID, mimicking the real store's overlay semantics.
type fakeIndex struct {
	results []models.RetrievalResult
	err     error

	mu      sync.Mutex
	entries map[string]models.Chunk
}

func (f *fakeIndex) Search(_ []float64, topK int) ([]models.RetrievalResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	results := f.results
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (f *fakeIndex) Upsert(chunk models.Chunk, _ []float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		f.entries = make(map[string]models.Chunk)
	}
	f.entries[chunk.ID] = chunk
	return nil
}

// fakeCompleter records every prompt it is asked to complete.
type fakeCompleter struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// memoryLog is an in-memory ConversationLog.
type memoryLog struct {
	mu       sync.Mutex
	sessions map[string][]models.Message
}

func newMemoryLog() *memoryLog {
	return &memoryLog{sessions: make(map[string][]models.Message)}
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("%s/%s", userID, sessionID)
}

func (m *memoryLog) Append(userID, sessionID string, msg models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(userID, sessionID)
	m.sessions[key] = append(m.sessions[key], msg)
	return nil
}

func (m *memoryLog) GetWindow(userID, sessionID string, maxMessages int) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.sessions[sessionKey(userID, sessionID)]
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *memoryLog) messages(userID, sessionID string) []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionKey(userID, sessionID)]
}

// fakeLoader serves canned documents by path.
type fakeLoader struct {
	docs map[string]models.Document
}

func (f *fakeLoader) Load(path string) (models.Document, error) {
	doc, ok := f.docs[path]
	if !ok {
		return models.Document{}, fmt.Errorf("no such document: %s", path)
	}
	return doc, nil
}

// fakeDocSink records saved documents keyed by ID.
type fakeDocSink struct {
	mu   sync.Mutex
	docs map[string]models.Document
}

func (f *fakeDocSink) Save(doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = make(map[string]models.Document)
	}
	f.docs[doc.ID] = doc
	return nil
}
