// ABOUTME: ConversationStore keeps per-(user, session) append-only message logs
// ABOUTME: Backed by a key-value log (charm KV in production) with per-session locks
package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/harper/audit-assistant/internal/charm"
	"github.com/harper/audit-assistant/internal/models"
)

// KV is the narrow key-value contract the store needs. charm.Client
// satisfies it; tests use an in-memory fake.
type KV interface {
	SetJSON(key string, value interface{}) error
	GetJSON(key string, dest interface{}) error
	ListKeys(prefix string) ([]string, error)
}

// ConversationStore manages ordered message logs per (user, session).
// Sessions are created lazily on first append and never deleted here.
// Operations on a single session are serialized via a per-session mutex;
// unrelated sessions proceed concurrently.
type ConversationStore struct {
	kv KV

	mu       sync.Mutex
	sessions map[models.SessionKey]*sessionState
}

type sessionState struct {
	mu      sync.Mutex
	nextSeq int
	loaded  bool
}

// NewConversationStore creates a ConversationStore over the given KV backend.
func NewConversationStore(kv KV) *ConversationStore {
	return &ConversationStore{
		kv:       kv,
		sessions: make(map[models.SessionKey]*sessionState),
	}
}

// session returns the state for a key, creating it lazily.
func (cs *ConversationStore) session(key models.SessionKey) *sessionState {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	st, ok := cs.sessions[key]
	if !ok {
		st = &sessionState{}
		cs.sessions[key] = st
	}
	return st
}

// ensureLoaded recovers the next sequence number from the KV log for a
// session that predates this process. Caller holds the session lock.
func (cs *ConversationStore) ensureLoaded(key models.SessionKey, st *sessionState) error {
	if st.loaded {
		return nil
	}
	keys, err := cs.kv.ListKeys(charm.SessionPrefix(key.UserID, key.SessionID))
	if err != nil {
		return fmt.Errorf("failed to load session %s/%s: %w", key.UserID, key.SessionID, err)
	}
	st.nextSeq = len(keys)
	st.loaded = true
	return nil
}

// Append adds a message to the session's ordered log, creating the session
// if absent. Messages are immutable once appended.
func (cs *ConversationStore) Append(userID, sessionID string, msg models.Message) error {
	key := models.SessionKey{UserID: userID, SessionID: sessionID}
	st := cs.session(key)

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := cs.ensureLoaded(key, st); err != nil {
		return err
	}

	if err := cs.kv.SetJSON(charm.MessageKey(userID, sessionID, st.nextSeq), msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	st.nextSeq++
	return nil
}

// GetWindow returns the most recent maxMessages entries, oldest-first, for
// inclusion in the next completion request. An unknown session yields an
// empty slice, never an error.
func (cs *ConversationStore) GetWindow(userID, sessionID string, maxMessages int) ([]models.Message, error) {
	if maxMessages <= 0 {
		return nil, nil
	}

	messages, err := cs.Export(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}
	return messages, nil
}

// Export returns the full ordered log for a session.
func (cs *ConversationStore) Export(userID, sessionID string) ([]models.Message, error) {
	key := models.SessionKey{UserID: userID, SessionID: sessionID}
	st := cs.session(key)

	st.mu.Lock()
	defer st.mu.Unlock()

	keys, err := cs.kv.ListKeys(charm.SessionPrefix(userID, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}

	// Zero-padded sequence numbers make lexicographic order the append order.
	sort.Strings(keys)

	messages := make([]models.Message, 0, len(keys))
	for _, k := range keys {
		var msg models.Message
		if err := cs.kv.GetJSON(k, &msg); err != nil {
			return nil, fmt.Errorf("failed to read message %s: %w", k, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
