package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

const lockStripes = 64

// State is the position of a key in the limiter state machine.
type State int

const (
	Untracked State = iota
	WithinWindow
	OverLimit
)

func (s State) String() string {
	switch s {
	case Untracked:
		return "untracked"
	case WithinWindow:
		return "within_window"
	case OverLimit:
		return "over_limit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config describes one limiter instance.
type Config struct {
	// Name labels the instance in logs and metrics.
	Name string
	// Prefix namespaces keys so that instances sharing a store never collide.
	Prefix  string
	Window  time.Duration
	Max     int
	Message string
	// FailClosed rejects requests while the store is unreachable instead of
	// letting them through. Set for instances guarding credentials.
	FailClosed bool
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool
	State   State
	Count   int
	Limit   int
	ResetAt time.Time
	// RetryAfter is zero for allowed requests.
	RetryAfter time.Duration
}

// Limiter applies a fixed-window ceiling per key.
type Limiter struct {
	cfg   Config
	store WindowStore
	now   func() time.Time
	locks [lockStripes]sync.Mutex
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(cfg Config, store WindowStore, opts ...Option) (*Limiter, error) {
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("ratelimit %s: window must be positive", cfg.Name)
	}
	if cfg.Max <= 0 {
		return nil, fmt.Errorf("ratelimit %s: max must be positive", cfg.Name)
	}
	if store == nil {
		return nil, fmt.Errorf("ratelimit %s: store is required", cfg.Name)
	}
	l := &Limiter{cfg: cfg, store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Limiter) Name() string         { return l.cfg.Name }
func (l *Limiter) Message() string      { return l.cfg.Message }
func (l *Limiter) Window() time.Duration { return l.cfg.Window }
func (l *Limiter) FailClosed() bool      { return l.cfg.FailClosed }

// Peek reports the state of key without recording a request.
func (l *Limiter) Peek(ctx context.Context, key string) (State, error) {
	w, err := l.store.Get(ctx, l.cfg.Prefix+key)
	switch {
	case errors.Is(err, ErrNoWindow):
		return Untracked, nil
	case err != nil:
		return Untracked, fmt.Errorf("ratelimit %s: get: %w", l.cfg.Name, err)
	case l.now().Sub(w.Start) >= l.cfg.Window:
		return Untracked, nil
	case w.Count > l.cfg.Max:
		return OverLimit, nil
	default:
		return WithinWindow, nil
	}
}

// Allow records one request for key and decides whether it may proceed.
// A missing or elapsed window is replaced by a fresh one counting this
// request. Otherwise the count is incremented and the request is rejected
// once it exceeds the ceiling. Rejected requests still count.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.cfg.Prefix + key
	mu := l.lockFor(k)
	mu.Lock()
	defer mu.Unlock()

	now := l.now()
	w, err := l.store.Get(ctx, k)
	switch {
	case errors.Is(err, ErrNoWindow):
		return l.fresh(ctx, k, now)
	case err != nil:
		return Decision{}, fmt.Errorf("ratelimit %s: get: %w", l.cfg.Name, err)
	case now.Sub(w.Start) >= l.cfg.Window:
		return l.fresh(ctx, k, now)
	}

	w, err = l.store.Increment(ctx, k)
	if errors.Is(err, ErrNoWindow) {
		// Expired in the store between Get and Increment.
		return l.fresh(ctx, k, now)
	}
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit %s: increment: %w", l.cfg.Name, err)
	}

	d := Decision{
		Allowed: true,
		State:   WithinWindow,
		Count:   w.Count,
		Limit:   l.cfg.Max,
		ResetAt: w.Start.Add(l.cfg.Window),
	}
	if w.Count > l.cfg.Max {
		d.Allowed = false
		d.State = OverLimit
		d.RetryAfter = d.ResetAt.Sub(now)
	}
	return d, nil
}

func (l *Limiter) fresh(ctx context.Context, key string, now time.Time) (Decision, error) {
	w, err := l.store.Reset(ctx, key, now, l.cfg.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit %s: reset: %w", l.cfg.Name, err)
	}
	return Decision{
		Allowed: true,
		State:   WithinWindow,
		Count:   w.Count,
		Limit:   l.cfg.Max,
		ResetAt: w.Start.Add(l.cfg.Window),
	}, nil
}

func (l *Limiter) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.locks[h.Sum32()%lockStripes]
}
