package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an idle user's IP ring survives.
const sessionTTL = 30 * 24 * time.Hour

// SessionIPStore implements ports.SessionIPStore as a per-user ring of
// recently seen client IPs, consumed by the suspicious-IP check.
type SessionIPStore struct {
	client *goredis.Client
	prefix string
	depth  int64
}

// NewSessionIPStore creates a new Redis-backed session IP store.
// depth is the number of distinct recent IPs kept per user.
func NewSessionIPStore(client *goredis.Client, depth int) *SessionIPStore {
	return &SessionIPStore{
		client: client,
		prefix: "sessionip:",
		depth:  int64(depth),
	}
}

// Record pushes ip to the front of the user's ring, deduplicating and
// trimming to the configured depth.
func (s *SessionIPStore) Record(ctx context.Context, userID uuid.UUID, ip string) error {
	key := s.prefix + userID.String()

	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, key, 0, ip)
	pipe.LPush(ctx, key, ip)
	pipe.LTrim(ctx, key, 0, s.depth-1)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis session ip record: %w", err)
	}
	return nil
}

// Recent returns the user's ring, most recent first. An empty slice
// means the user has no recorded sessions yet.
func (s *SessionIPStore) Recent(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ips, err := s.client.LRange(ctx, s.prefix+userID.String(), 0, s.depth-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis session ip range: %w", err)
	}
	return ips, nil
}
