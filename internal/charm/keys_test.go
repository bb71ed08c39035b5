// ABOUTME: Tests for the conversation log key scheme
// ABOUTME: Keys must be injective per (user, session) and sort in append order

package charm

import (
	"strings"
	"testing"
)

func TestMessageKeyOrder(t *testing.T) {
	prefix := SessionPrefix("alice", "s1")
	prev := ""
	for seq := 0; seq < 3; seq++ {
		key := MessageKey("alice", "s1", seq)
		if !strings.HasPrefix(key, prefix) {
			t.Errorf("key %q not under session prefix %q", key, prefix)
		}
		if key <= prev {
			t.Errorf("key %q does not sort after %q", key, prev)
		}
		prev = key
	}
}

func TestKeysEscapeDelimiter(t *testing.T) {
	// Distinct (user, session) pairs whose raw concatenation would be
	// identical if ":" were left unescaped.
	tests := []struct {
		userA, sessionA string
		userB, sessionB string
	}{
		{"alice:s1", "x", "alice", "s1:x"},
		{"alice", "s1", "alice:s1:00000000", ""},
		{"a:b", "c", "a", "b:c"},
	}
	for _, tt := range tests {
		prefixA := SessionPrefix(tt.userA, tt.sessionA)
		prefixB := SessionPrefix(tt.userB, tt.sessionB)
		if prefixA == prefixB {
			t.Errorf("prefixes collide: (%q,%q) and (%q,%q) -> %q",
				tt.userA, tt.sessionA, tt.userB, tt.sessionB, prefixA)
		}
		if strings.HasPrefix(MessageKey(tt.userB, tt.sessionB, 0), prefixA) {
			t.Errorf("message key for (%q,%q) falls under (%q,%q)'s prefix",
				tt.userB, tt.sessionB, tt.userA, tt.sessionA)
		}
	}
}
