// Package circuitbreaker fails calls fast while a dependency is known to be
// down. Calls are never retried.
package circuitbreaker

import (
	"context"
	"errors"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrCircuitOpen rejects calls while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTooManyRequests rejects calls once the half-open probes are used up.
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New returns nil when cfg is disabled; a nil breaker is valid everywhere.
func New[T any](cfg Config) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](cfg.settings())}
}

func (c *CircuitBreaker[T]) Name() string {
	if c == nil {
		return ""
	}

	return c.cb.Name()
}

// State reports "closed", "half-open" or "open".
func (c *CircuitBreaker[T]) State() string {
	if c == nil {
		return gobreaker.StateClosed.String()
	}

	return c.cb.State().String()
}

// Execute runs fn through cb, or directly when cb is nil.
func Execute[T any](cb *CircuitBreaker[T], fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	result, err := cb.cb.Execute(fn)

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState):
		return *new(T), ErrCircuitOpen
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return *new(T), ErrTooManyRequests
	default:
		return result, err
	}
}

// Guard runs a context-aware call that only reports an error.
func Guard(ctx context.Context, cb *CircuitBreaker[struct{}], fn func(ctx context.Context) error) error {
	_, err := Execute(cb, func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return err
}
