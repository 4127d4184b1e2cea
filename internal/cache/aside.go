package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"feedgraph/internal/middleware"
	"feedgraph/internal/observability"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var group singleflight.Group

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside reads key into dest, falling back to fetch on a miss and storing the result
// with ttl. Concurrent misses for the same key share one fetch. Cache failures are
// logged and never fail the read. A shared fetch runs detached from the caller's
// cancellation so one caller giving up cannot fail the others in its flight.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func(ctx context.Context) error) error {
	if client == nil {
		return fetch(ctx)
	}

	found, err := GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case found:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	default:
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	raw, err, _ := group.Do(key, func() (any, error) {
		flightCtx := context.WithoutCancel(ctx)
		if err := fetch(flightCtx); err != nil {
			return nil, err
		}
		b, err := json.Marshal(dest)
		if err != nil {
			return nil, err
		}
		if err := client.Set(flightCtx, key, b, ttl).Err(); err != nil {
			middleware.Logger.WarnContext(flightCtx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return b, nil
	})
	if err != nil {
		return err
	}

	// Callers that joined another goroutine's flight still need dest populated.
	return json.Unmarshal(raw.([]byte), dest)
}
