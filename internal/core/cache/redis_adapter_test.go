package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAdapter_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	ctx := context.Background()

	key := "tracking:snapshot:AWB123"
	value := []byte(`{"shipment_id":"AWB123"}`)

	err = adapter.Set(ctx, key, value, 10*time.Second)
	assert.NoError(t, err)

	retrievedValue, err := adapter.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, value, retrievedValue)
}

func TestRedisAdapter_GetNotFound(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	_, err = adapter.Get(context.Background(), "non_existent_key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestRedisAdapter_Delete(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	ctx := context.Background()

	key := "delete_test"
	err = adapter.Set(ctx, key, []byte("value"), 0)
	require.NoError(t, err)

	err = adapter.Delete(ctx, key)
	assert.NoError(t, err)

	_, err = adapter.Get(ctx, key)
	assert.Error(t, err)
}

func TestRedisAdapter_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	ctx := context.Background()

	key := "ttl_test"
	err = adapter.Set(ctx, key, []byte("expires_soon"), 1*time.Second)
	require.NoError(t, err)

	_, err = adapter.Get(ctx, key)
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = adapter.Get(ctx, key)
	assert.Error(t, err)
}

func TestRedisAdapter_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	err = adapter.Ping(context.Background())
	assert.NoError(t, err)
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("invalid://url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
