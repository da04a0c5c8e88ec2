package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupPrefix = "dedup:payment"
	dedupTTL    = 24 * time.Hour
)

// DedupChecker remembers which gateway notifications were applied, per order
// and status, so a retried push is recognised.
// Key format: dedup:payment:<order_id>:<status>
type DedupChecker struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewDedupChecker(client redis.Cmdable) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// IsDuplicate reports whether status was already applied to orderID.
func (d *DedupChecker) IsDuplicate(ctx context.Context, orderID, status string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(orderID, status)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check %s: %w", orderID, err)
	}
	return n > 0, nil
}

// Mark records that status was applied to orderID. A second Mark for the same
// pair keeps the original expiry.
func (d *DedupChecker) Mark(ctx context.Context, orderID, status string) error {
	if err := d.client.SetNX(ctx, dedupKey(orderID, status), time.Now().Unix(), d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark %s: %w", orderID, err)
	}
	return nil
}

func dedupKey(orderID, status string) string {
	return strings.Join([]string{dedupPrefix, orderID, strings.ToLower(status)}, ":")
}
