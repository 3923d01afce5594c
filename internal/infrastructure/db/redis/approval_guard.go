package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 30 * time.Second

// ApprovalGuard serialises approval processing per claim using a Redis
// lock. Key format: approval:lock:<claim_id>. The TTL bounds how long a
// crashed worker can keep a claim locked.
type ApprovalGuard struct {
	client *redis.Client
}

// NewApprovalGuard creates an ApprovalGuard wrapping the given Redis client.
func NewApprovalGuard(client *redis.Client) *ApprovalGuard {
	return &ApprovalGuard{client: client}
}

// Acquire attempts to take the lock for claimID. It returns false when
// another worker already holds it.
func (g *ApprovalGuard) Acquire(ctx context.Context, claimID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(claimID), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("approval lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock for claimID.
func (g *ApprovalGuard) Release(ctx context.Context, claimID string) error {
	return g.client.Del(ctx, g.key(claimID)).Err()
}

func (g *ApprovalGuard) key(claimID string) string {
	return fmt.Sprintf("approval:lock:%s", claimID)
}
