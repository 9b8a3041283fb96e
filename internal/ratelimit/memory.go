package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps windows in a process-local map. State is lost on restart
// and is not shared between replicas.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	if !ok {
		return Window{}, ErrNoWindow
	}
	return w, nil
}

func (s *MemoryStore) Increment(_ context.Context, key string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	if !ok {
		return Window{}, ErrNoWindow
	}
	w.Count++
	s.windows[key] = w
	return w, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string, start time.Time, _ time.Duration) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := Window{Start: start, Count: 1}
	s.windows[key] = w
	return w, nil
}

// Prune drops windows that started at least maxAge before now and returns
// how many were removed. Without it the map grows with every distinct client.
func (s *MemoryStore) Prune(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, w := range s.windows {
		if now.Sub(w.Start) >= maxAge {
			delete(s.windows, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// RunPruner calls Prune every interval until ctx is cancelled.
func (s *MemoryStore) RunPruner(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Prune(now, maxAge)
		}
	}
}
