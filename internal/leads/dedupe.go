package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "leads:dedupe:"

// DuplicateGuard remembers recently accepted lead fingerprints.
type DuplicateGuard interface {
	// Claim records the fingerprint and reports whether it was new.
	Claim(ctx context.Context, fingerprint string) (bool, error)
	// Release forgets a fingerprint, e.g. when storing the lead failed.
	Release(ctx context.Context, fingerprint string) error
}

// RedisDuplicateGuard keeps fingerprints in Redis with a TTL equal to the window.
type RedisDuplicateGuard struct {
	client *redis.Client
	window time.Duration
}

// NewRedisDuplicateGuard returns nil when Redis is not configured or the window is not positive.
func NewRedisDuplicateGuard(client *redis.Client, window time.Duration) *RedisDuplicateGuard {
	if client == nil || window <= 0 {
		return nil
	}
	return &RedisDuplicateGuard{client: client, window: window}
}

func (g *RedisDuplicateGuard) Claim(ctx context.Context, fingerprint string) (bool, error) {
	if g == nil {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, dedupeKeyPrefix+fingerprint, time.Now().UTC().Format(time.RFC3339), g.window).Result()
	if err != nil {
		return false, fmt.Errorf("leads: dedupe claim: %w", err)
	}
	return ok, nil
}

func (g *RedisDuplicateGuard) Release(ctx context.Context, fingerprint string) error {
	if g == nil {
		return nil
	}
	if err := g.client.Del(ctx, dedupeKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("leads: dedupe release: %w", err)
	}
	return nil
}
