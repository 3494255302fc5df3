package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateStore_PropagatesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisStateStore(client)
	ctx := context.Background()

	err := store.Save(ctx, "state", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save oauth state")

	ok, err := store.Consume(ctx, "state")
	require.Error(t, err)
	assert.False(t, ok)
}
