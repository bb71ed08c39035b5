// ABOUTME: Tests for the per-user query-rate Governor
// ABOUTME: Verifies the (N+1)-th query inside a minute is rejected with a retry hint

package core

import (
	"errors"
	"testing"
	"time"
)

func TestGovernor_AllowsBudget(t *testing.T) {
	g := NewGovernor(5)

	for i := 0; i < 5; i++ {
		if err := g.Check("alice"); err != nil {
			t.Fatalf("query %d unexpectedly limited: %v", i+1, err)
		}
	}
}

func TestGovernor_RejectsOverBudget(t *testing.T) {
	g := NewGovernor(3)

	for i := 0; i < 3; i++ {
		if err := g.Check("alice"); err != nil {
			t.Fatalf("query %d unexpectedly limited: %v", i+1, err)
		}
	}

	err := g.Check("alice")
	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("4th query error = %v, want *RateLimitedError", err)
	}
	if rateErr.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want a positive hint", rateErr.RetryAfter)
	}
	if rateErr.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", rateErr.UserID)
	}
}

func TestGovernor_BudgetDoesNotLeakBackMidWindow(t *testing.T) {
	g := NewGovernor(60)
	current := time.Now()
	g.now = func() time.Time { return current }

	for i := 0; i < 60; i++ {
		if err := g.Check("alice"); err != nil {
			t.Fatalf("query %d unexpectedly limited: %v", i+1, err)
		}
	}

	// A pause inside the window must not restore any budget.
	current = current.Add(1500 * time.Millisecond)

	err := g.Check("alice")
	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("61st query within the minute error = %v, want *RateLimitedError", err)
	}
	if rateErr.RetryAfter < 58*time.Second || rateErr.RetryAfter > 59*time.Second {
		t.Errorf("RetryAfter = %v, want the remainder of the window (~58.5s)", rateErr.RetryAfter)
	}
}

func TestGovernor_WindowResetRestoresBudget(t *testing.T) {
	g := NewGovernor(3)
	current := time.Now()
	g.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if err := g.Check("alice"); err != nil {
			t.Fatalf("query %d unexpectedly limited: %v", i+1, err)
		}
	}
	if err := g.Check("alice"); err == nil {
		t.Fatal("4th query inside the window should be limited")
	}

	current = current.Add(time.Minute)

	if err := g.Check("alice"); err != nil {
		t.Errorf("query in the next window limited: %v", err)
	}
}

func TestGovernor_UsersAreIndependent(t *testing.T) {
	g := NewGovernor(1)

	if err := g.Check("alice"); err != nil {
		t.Fatalf("alice's first query limited: %v", err)
	}
	if err := g.Check("alice"); err == nil {
		t.Fatal("alice's second query should be limited")
	}
	if err := g.Check("bob"); err != nil {
		t.Errorf("bob's budget should be independent of alice's: %v", err)
	}
}
