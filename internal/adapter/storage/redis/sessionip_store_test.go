package redis_test

import (
	"context"
	"fmt"
	"testing"

	"fincore/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIPStore_RecordAndRecent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewSessionIPStore(client, 10)
	ctx := context.Background()
	userID := uuid.New()

	// Empty ring for an unknown user
	ips, err := store.Recent(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, ips)

	require.NoError(t, store.Record(ctx, userID, "10.0.0.1"))
	require.NoError(t, store.Record(ctx, userID, "10.0.0.2"))

	ips, err = store.Recent(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.1"}, ips)
}

func TestSessionIPStore_DeduplicatesRepeatIP(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewSessionIPStore(client, 10)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Record(ctx, userID, "10.0.0.1"))
	require.NoError(t, store.Record(ctx, userID, "10.0.0.2"))
	require.NoError(t, store.Record(ctx, userID, "10.0.0.1"))

	ips, err := store.Recent(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, ips)
}

func TestSessionIPStore_TrimsToDepth(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewSessionIPStore(client, 3)
	ctx := context.Background()
	userID := uuid.New()

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Record(ctx, userID, fmt.Sprintf("10.0.0.%d", i)))
	}

	ips, err := store.Recent(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.5", "10.0.0.4", "10.0.0.3"}, ips)
}

func TestSessionIPStore_RingsAreIndependent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewSessionIPStore(client, 10)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	require.NoError(t, store.Record(ctx, userA, "10.0.0.1"))
	require.NoError(t, store.Record(ctx, userB, "10.0.0.9"))

	ips, err := store.Recent(ctx, userA)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, ips)
}
