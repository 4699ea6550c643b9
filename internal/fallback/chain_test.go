package fallback

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// failing returns a source that always errors.
func failing(name string) Source[string] {
	return SourceFunc(name, func(ctx context.Context) (string, error) {
		return "", fmt.Errorf("%s is down", name)
	})
}

// succeeding returns a source that always yields v and counts its calls.
func succeeding(name, v string, calls *int) Source[string] {
	return SourceFunc(name, func(ctx context.Context) (string, error) {
		*calls++
		return v, nil
	})
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve_FirstSourceWins(t *testing.T) {
	var second int
	c := NewChain(nil, 3,
		SourceFunc("cache", func(ctx context.Context) (string, error) { return "cached", nil }),
		succeeding("api", "fresh", &second),
	)

	got, err := c.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "cached" {
		t.Errorf("Resolve = %q, want %q", got, "cached")
	}
	if second != 0 {
		t.Errorf("later source was tried %d times after a success", second)
	}
	if c.Attempts() != 1 {
		t.Errorf("Attempts = %d, want 1", c.Attempts())
	}
}

func TestResolve_FallsThroughToThirdSource(t *testing.T) {
	var calls int
	c := NewChain(nil, 3,
		failing("cache"),
		failing("primary"),
		succeeding("mirror", "X", &calls),
	)

	got, err := c.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "X" {
		t.Errorf("Resolve = %q, want %q", got, "X")
	}
	if c.Attempts() != 3 {
		t.Errorf("Attempts = %d, want 3", c.Attempts())
	}
}

func TestResolve_BudgetStopsBeforeThirdSource(t *testing.T) {
	var calls int
	c := NewChain(nil, 2,
		failing("cache"),
		failing("primary"),
		succeeding("mirror", "X", &calls),
	)

	_, err := c.Resolve(context.Background())
	if err == nil {
		t.Fatal("expected terminal failure, got nil")
	}
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("error %v does not match ErrExhausted", err)
	}
	if calls != 0 {
		t.Errorf("third source was tried %d times beyond the budget", calls)
	}
	if c.Attempts() != 2 {
		t.Errorf("Attempts = %d, want 2", c.Attempts())
	}
}

func TestResolve_ExhaustedFailsFast(t *testing.T) {
	var calls int
	c := NewChain(nil, 1, failing("only"))

	if _, err := c.Resolve(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if !c.Exhausted() {
		t.Fatal("chain should be exhausted")
	}

	// A degraded chain must not touch any source again.
	c.sources = append(c.sources, succeeding("late", "v", &calls))
	if _, err := c.Resolve(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
	if calls != 0 {
		t.Errorf("source tried %d times after exhaustion", calls)
	}
}

func TestResolve_CarriesLastError(t *testing.T) {
	c := NewChain(nil, 2,
		failing("cache"),
		SourceFunc("primary", func(ctx context.Context) (string, error) {
			return "", E(KindTimeout, errors.New("deadline"))
		}),
	)

	_, err := c.Resolve(context.Background())
	if err == nil {
		t.Fatal("expected failure")
	}

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}
	if KindOf(ex.Last) != KindTimeout {
		t.Errorf("last error kind = %s, want %s", KindOf(ex.Last), KindTimeout)
	}
}

func TestResolve_ResumesFromAttemptIndex(t *testing.T) {
	var first, second int
	c := NewChain(nil, 4,
		SourceFunc("cache", func(ctx context.Context) (string, error) {
			first++
			return "", errors.New("miss")
		}),
		succeeding("primary", "X", &second),
	)

	// First call fails at the cache but succeeds at the primary.
	if _, err := c.Resolve(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The next scan must resume past both consumed sources, not replay them.
	if _, err := c.Resolve(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted on resumed scan, got %v", err)
	}
	if first != 1 || second != 1 {
		t.Errorf("sources replayed: cache=%d primary=%d, want 1 and 1", first, second)
	}
}

func TestResolve_ReportsWinningSource(t *testing.T) {
	var calls int
	c := NewChain(nil, 3,
		failing("cache"),
		succeeding("primary", "X", &calls),
	)

	if src := c.LastSource(); src != "" {
		t.Errorf("LastSource before any resolve = %q, want empty", src)
	}

	if _, err := c.Resolve(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src := c.LastSource(); src != "primary" {
		t.Errorf("LastSource = %q, want %q", src, "primary")
	}

	c.Reset()
	if src := c.LastSource(); src != "" {
		t.Errorf("LastSource after Reset = %q, want empty", src)
	}
}

// ---------------------------------------------------------------------------
// Reset
// ---------------------------------------------------------------------------

func TestReset_ClearsExhaustion(t *testing.T) {
	var calls int
	c := NewChain(nil, 1, failing("flaky"))

	if _, err := c.Resolve(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if !c.Exhausted() {
		t.Fatal("chain should be exhausted")
	}

	c.Reset()

	if c.Attempts() != 0 {
		t.Errorf("Attempts after Reset = %d, want 0", c.Attempts())
	}
	if c.LastError() != nil {
		t.Errorf("LastError after Reset = %v, want nil", c.LastError())
	}

	// Full chain runs again from the top.
	c.sources = []Source[string]{succeeding("recovered", "ok", &calls)}
	got, err := c.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
	if got != "ok" {
		t.Errorf("Resolve = %q, want %q", got, "ok")
	}
}

// ---------------------------------------------------------------------------
// Error kinds
// ---------------------------------------------------------------------------

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified timeout", E(KindTimeout, errors.New("x")), KindTimeout},
		{"classified parse", Errorf(KindParse, "bad json"), KindParse},
		{"wrapped classification", fmt.Errorf("outer: %w", E(KindPermissionDenied, errors.New("no"))), KindPermissionDenied},
		{"plain error defaults to network", errors.New("boom"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExhaustedError_Unwrap(t *testing.T) {
	inner := E(KindNetwork, errors.New("down"))
	err := &ExhaustedError{Last: inner}

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatal("expected inner *Error to be reachable via errors.As")
	}
	if fe.Kind != KindNetwork {
		t.Errorf("inner kind = %s, want %s", fe.Kind, KindNetwork)
	}
}
