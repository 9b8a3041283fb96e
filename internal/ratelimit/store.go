// Package ratelimit implements fixed-window request throttling keyed by
// client. Window state lives behind WindowStore so the decision logic in
// Limiter does not care whether counts are kept in process or in Redis.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrNoWindow is returned by WindowStore.Get for an untracked key.
var ErrNoWindow = errors.New("ratelimit: no window for key")

// Window is the request count observed since Start.
type Window struct {
	Start time.Time
	Count int
}

// WindowStore persists one Window per key.
type WindowStore interface {
	Get(ctx context.Context, key string) (Window, error)
	// Increment adds one to the count of an existing window and returns the
	// updated window. It returns ErrNoWindow when the key is untracked.
	Increment(ctx context.Context, key string) (Window, error)
	// Reset replaces the window for key with a fresh one starting at start
	// with a count of 1. ttl is a hint for stores that expire keys.
	Reset(ctx context.Context, key string, start time.Time, ttl time.Duration) (Window, error)
}
