package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker hands out leases with SET NX. A lease is never released early; it
// simply expires, which is enough for periodic jobs that run once per tick.
type Locker struct {
	client *redis.Client
	owner  string
}

// NewLocker creates a Locker whose leases are tagged with owner.
func NewLocker(client *redis.Client, owner string) *Locker {
	return &Locker{client: client, owner: owner}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", key, err)
	}
	return ok, nil
}
