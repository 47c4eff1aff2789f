package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	throttleWindow = 15 * time.Minute
	maxAttempts    = 10
)

// LoginThrottle provides a fixed-window rate limit on login attempts backed
// by Redis. Key format: login_attempts:<key>
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// Allow records one attempt for key and reports whether it is still within
// the window budget. The counter expires after throttleWindow.
func (t *LoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	k := t.key(key)

	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, throttleWindow).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}

	return n <= maxAttempts, nil
}

func (t *LoginThrottle) key(key string) string {
	return "login_attempts:" + key
}
