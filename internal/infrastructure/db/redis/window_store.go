package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodhub/ordering-api/internal/ratelimit"
)

const (
	fieldStart = "start"
	fieldCount = "count"
)

// incrementScript bumps the count of an existing window only. A missing key
// returns nil so that an expired window is never resurrected without a start.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
local count = redis.call('HINCRBY', KEYS[1], 'count', 1)
local start = redis.call('HGET', KEYS[1], 'start')
return {start, count}
`)

// WindowStore implements ratelimit.WindowStore on Redis hashes so several API
// replicas can share one budget per client.
// Key format: ratelimit:<limiter prefix><client key>
type WindowStore struct {
	client *redis.Client
}

// NewWindowStore creates a WindowStore wrapping the given Redis client.
func NewWindowStore(client *redis.Client) *WindowStore {
	return &WindowStore{client: client}
}

func (s *WindowStore) Get(ctx context.Context, key string) (ratelimit.Window, error) {
	vals, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return ratelimit.Window{}, fmt.Errorf("window get: %w", err)
	}
	if len(vals) == 0 {
		return ratelimit.Window{}, ratelimit.ErrNoWindow
	}
	return parseWindow(vals[fieldStart], vals[fieldCount])
}

func (s *WindowStore) Increment(ctx context.Context, key string) (ratelimit.Window, error) {
	res, err := incrementScript.Run(ctx, s.client, []string{s.key(key)}).Slice()
	if errors.Is(err, redis.Nil) {
		return ratelimit.Window{}, ratelimit.ErrNoWindow
	}
	if err != nil {
		return ratelimit.Window{}, fmt.Errorf("window increment: %w", err)
	}
	if len(res) != 2 {
		return ratelimit.Window{}, fmt.Errorf("window increment: unexpected reply %v", res)
	}
	start, _ := res[0].(string)
	return parseWindow(start, fmt.Sprint(res[1]))
}

// Reset writes a fresh window and lets Redis expire it after ttl.
func (s *WindowStore) Reset(ctx context.Context, key string, start time.Time, ttl time.Duration) (ratelimit.Window, error) {
	k := s.key(key)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k, fieldStart, start.UnixMilli(), fieldCount, 1)
		if ttl > 0 {
			p.PExpire(ctx, k, ttl)
		}
		return nil
	})
	if err != nil {
		return ratelimit.Window{}, fmt.Errorf("window reset: %w", err)
	}
	return ratelimit.Window{Start: time.UnixMilli(start.UnixMilli()), Count: 1}, nil
}

func (s *WindowStore) key(key string) string {
	return "ratelimit:" + key
}

func parseWindow(start, count string) (ratelimit.Window, error) {
	ms, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return ratelimit.Window{}, fmt.Errorf("window start %q: %w", start, err)
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return ratelimit.Window{}, fmt.Errorf("window count %q: %w", count, err)
	}
	return ratelimit.Window{Start: time.UnixMilli(ms), Count: n}, nil
}
