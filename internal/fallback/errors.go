// Package fallback implements a cascading multi-source resolver with a
// per-session attempt budget. A Chain tries its sources in priority order,
// short-circuits on the first success, and degrades permanently to the
// caller's static default once the budget is spent.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies resolver failures for surfacing to the renderer.
type Kind string

const (
	// KindPermissionDenied means the geolocation provider refused access.
	// Surfaced once; never retried automatically.
	KindPermissionDenied Kind = "permission-denied"
	// KindTimeout means a geolocation or network call exceeded its deadline.
	KindTimeout Kind = "timeout"
	// KindNetwork means a fetch failed or returned a non-OK status.
	KindNetwork Kind = "network"
	// KindParse means a response decoded to garbage. Treated the same as
	// KindNetwork when deciding whether to try the next source.
	KindParse Kind = "parse"
	// KindBudgetExhausted means every source up to the budget failed.
	KindBudgetExhausted Kind = "budget-exhausted"
)

// Error pairs an underlying failure with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with the given kind.
func E(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf wraps a formatted error with the given kind.
func Errorf(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, a...)}
}

// KindOf extracts the Kind from an error chain.
// Unclassified errors are reported as KindNetwork, which is the correct
// default for the try-next-source decision.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}

// Classify wraps an outbound-call failure with the right kind: exceeded
// deadlines and net timeouts become KindTimeout, everything else
// KindNetwork. Already-classified errors pass through unchanged.
func Classify(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return E(KindTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return E(KindTimeout, err)
	}
	return E(KindNetwork, err)
}

// ErrExhausted is the sentinel matched by errors.Is for budget exhaustion.
var ErrExhausted = errors.New("fallback budget exhausted")

// ExhaustedError is the terminal failure returned once a chain's budget is
// spent. It carries the last source error for diagnostics.
type ExhaustedError struct {
	Last error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return ErrExhausted.Error()
	}
	return fmt.Sprintf("%v (last error: %v)", ErrExhausted, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Is makes errors.Is(err, ErrExhausted) work.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}
