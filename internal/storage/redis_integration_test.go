//go:build integration
// +build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	s, err := NewRedisStore(url, time.Minute, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		t.Skipf("Skipping integration test: failed to connect to Redis: %v", err)
	}
	return s
}

func TestRedisStore_Lifecycle(t *testing.T) {
	s := setupTestRedis(t)
	defer s.Close()
	ctx := context.Background()
	id := "itest-" + time.Now().Format("20060102150405")
	defer s.Delete(ctx, id)

	key, err := s.Save(ctx, id, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "snapshot:resume:"+id, key)

	ok, err := s.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	snap, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.Metadata.FileID)
	assert.Equal(t, "Jane Roe", snap.Record.Contact.Name)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
