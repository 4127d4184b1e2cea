package cache

import (
	"context"
	"time"
)

const (
	UserKeyPrefix = "user:"
)

const (
	UserTTL = 5 * time.Minute
)

// UserKey is the cache key for a user row. Only the row is cached; viewer-relative
// fields and counts are always computed per request.
func UserKey(userID string) string {
	return UserKeyPrefix + userID
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}
