package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClientBadURL(t *testing.T) {
	_, err := NewClient("not-a-url", zap.NewNop())
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestGetMiss(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, IsMiss(err))
}

func TestIsMissDistinguishesRealErrors(t *testing.T) {
	assert.False(t, IsMiss(fmt.Errorf("connection refused")))
	assert.False(t, IsMiss(nil))
}

func TestDelete(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, client.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestTTLApplied(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", TTLDisplayName))

	mr.FastForward(TTLDisplayName + time.Second)
	_, err := client.Get(ctx, "k")
	assert.True(t, IsMiss(err))
}

func TestHealth(t *testing.T) {
	client, mr := newTestClient(t)
	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
