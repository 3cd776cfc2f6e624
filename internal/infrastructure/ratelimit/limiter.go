package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rule is one per-action fixed-window limit.
type Rule struct {
	MaxRequests int
	Window      time.Duration
}

// Result reports one limiter decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// checkScript does the whole read-reset-increment cycle atomically so two
// racing requests cannot both slip past the cap. The counter hash holds
// count and windowStart; windows are keyed off each key's first request,
// not wall-clock ticks. PEXPIRE doubles as opportunistic garbage collection.
var checkScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

local ws = tonumber(redis.call('HGET', KEYS[1], 'ws'))
if ws == nil or now - ws >= window then
  redis.call('HSET', KEYS[1], 'ws', now, 'count', 1)
  redis.call('PEXPIRE', KEYS[1], window)
  return {1, max - 1, now + window}
end

local count = tonumber(redis.call('HGET', KEYS[1], 'count')) or 0
if count >= max then
  return {0, 0, ws + window}
end

redis.call('HINCRBY', KEYS[1], 'count', 1)
return {1, max - count - 1, ws + window}
`)

// Limiter is a fixed-window request counter keyed by (identifier, action).
type Limiter struct {
	client *redis.Client
	rules  map[string]Rule
}

// NewLimiter creates a limiter with per-action rules.
func NewLimiter(client *redis.Client, rules map[string]Rule) *Limiter {
	return &Limiter{client: client, rules: rules}
}

// Check counts one request against the (identifier, action) window. Actions
// with no configured rule are allowed unconditionally: limiting is opt-in per
// action, and an unregistered action must never lock users out.
func (l *Limiter) Check(ctx context.Context, identifier, action string) (*Result, error) {
	rule, ok := l.rules[action]
	if !ok {
		return &Result{Allowed: true, Remaining: -1}, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", action, identifier)
	now := time.Now()

	raw, err := checkScript.Run(ctx, l.client, []string{key},
		now.UnixMilli(), rule.Window.Milliseconds(), rule.MaxRequests).Result()
	if err != nil {
		return nil, err
	}

	vals, ok := raw.([]interface{})
	if !ok || len(vals) != 3 {
		return nil, fmt.Errorf("ratelimit: unexpected script reply %v", raw)
	}
	allowed, _ := vals[0].(int64)
	remaining, _ := vals[1].(int64)
	resetMs, _ := vals[2].(int64)

	return &Result{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetAt:   time.UnixMilli(resetMs),
	}, nil
}
