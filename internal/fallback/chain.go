package fallback

import (
	"context"

	"go.uber.org/zap"
)

// Source is a single data source in a fallback chain: a cache tier, a
// network endpoint, a mirror, and so on. Try either produces a value or
// an error explaining why the next source should be consulted.
type Source[T any] interface {
	Name() string
	Try(ctx context.Context) (T, error)
}

// SourceFunc adapts a plain function into a Source.
func SourceFunc[T any](name string, fn func(ctx context.Context) (T, error)) Source[T] {
	return funcSource[T]{name: name, fn: fn}
}

type funcSource[T any] struct {
	name string
	fn   func(ctx context.Context) (T, error)
}

func (s funcSource[T]) Name() string { return s.name }

func (s funcSource[T]) Try(ctx context.Context) (T, error) { return s.fn(ctx) }

// Chain resolves a value by trying an ordered list of sources.
//
// Each tried source, successful or not, counts against the budget.
// A resolve scan starts at the index equal to the attempts already made,
// so a later call resumes past sources that have already been consumed.
// Once the budget is spent every subsequent Resolve fails fast with an
// ExhaustedError until Reset is called; the caller is expected to
// substitute a static default that is always available.
//
// Chain is not safe for concurrent use. Each resolver owns one chain and
// drives it from scheduler callbacks on a single goroutine.
type Chain[T any] struct {
	sources    []Source[T]
	budget     int
	attempts   int
	lastErr    error
	lastSource string
	log        *zap.Logger
}

// NewChain builds a chain over the given sources. A nil logger is allowed.
func NewChain[T any](log *zap.Logger, budget int, sources ...Source[T]) *Chain[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain[T]{
		sources: sources,
		budget:  budget,
		log:     log,
	}
}

// Resolve walks the remaining sources in order and returns the first value
// produced. Later sources are never tried once one succeeds.
func (c *Chain[T]) Resolve(ctx context.Context) (T, error) {
	var zero T

	if c.attempts >= c.budget {
		return zero, &ExhaustedError{Last: c.lastErr}
	}

	for i := c.attempts; i < len(c.sources); i++ {
		if c.attempts >= c.budget {
			break
		}
		src := c.sources[i]
		c.attempts++

		v, err := src.Try(ctx)
		if err == nil {
			c.lastSource = src.Name()
			c.log.Debug("fallback source succeeded",
				zap.String("source", src.Name()),
				zap.Int("attempts", c.attempts))
			return v, nil
		}

		c.lastErr = err
		c.log.Warn("fallback source failed",
			zap.String("source", src.Name()),
			zap.String("kind", string(KindOf(err))),
			zap.Int("attempts", c.attempts),
			zap.Int("budget", c.budget),
			zap.Error(err))
	}

	return zero, &ExhaustedError{Last: c.lastErr}
}

// Attempts reports how many sources have been tried since the last Reset.
func (c *Chain[T]) Attempts() int {
	return c.attempts
}

// Budget reports the maximum number of source attempts.
func (c *Chain[T]) Budget() int {
	return c.budget
}

// Exhausted reports whether the chain has permanently degraded.
func (c *Chain[T]) Exhausted() bool {
	return c.attempts >= c.budget
}

// LastError returns the most recent source failure, if any.
func (c *Chain[T]) LastError() error {
	return c.lastErr
}

// LastSource names the source behind the most recent successful Resolve,
// or "" when none has succeeded since the last Reset. Resolvers use it to
// tell a cache hit apart from a fresh fetch.
func (c *Chain[T]) LastSource() string {
	return c.lastSource
}

// Reset clears the attempt counter and last error, un-degrading the chain.
// Called on manual refresh, and by resolvers at the start of a scheduled
// cycle when the previous cycle completed successfully.
func (c *Chain[T]) Reset() {
	c.attempts = 0
	c.lastErr = nil
	c.lastSource = ""
}
