package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/pkg/redis"
)

func newNameFixture(t *testing.T) (*miniredis.Miniredis, *fakeUserRepo, NameResolver) {
	t.Helper()
	mr := miniredis.RunT(t)

	cache, err := redis.NewClient("redis://"+mr.Addr(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	users := newFakeUserRepo()
	return mr, users, NewNameService(users, cache, testLogger(t))
}

func TestResolveUsesProfileAndCaches(t *testing.T) {
	mr, users, names := newNameFixture(t)
	users.users[10] = &domain.User{ID: 10, FirstName: "Ivan", LastName: "Petrov"}

	got := names.Resolve(context.Background(), 10)
	assert.Equal(t, "Ivan Petrov", got)

	cached, err := mr.Get(fmt.Sprintf(redis.KeyDisplayName, int64(10)))
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", cached)
}

func TestResolvePrefersCache(t *testing.T) {
	mr, users, names := newNameFixture(t)
	users.users[10] = &domain.User{ID: 10, FirstName: "Ivan"}
	require.NoError(t, mr.Set(fmt.Sprintf(redis.KeyDisplayName, int64(10)), "Кэш"))

	assert.Equal(t, "Кэш", names.Resolve(context.Background(), 10))
}

func TestResolveUnknownUserFallsBack(t *testing.T) {
	_, _, names := newNameFixture(t)
	assert.Equal(t, domain.FallbackName, names.Resolve(context.Background(), 404))
}

func TestResolveOverrideWins(t *testing.T) {
	_, users, names := newNameFixture(t)
	users.users[10] = &domain.User{ID: 10, DisplayName: "Катя", FirstName: "Ekaterina"}

	assert.Equal(t, "Катя", names.Resolve(context.Background(), 10))
}

func TestInvalidateDropsCachedName(t *testing.T) {
	mr, users, names := newNameFixture(t)
	users.users[10] = &domain.User{ID: 10, FirstName: "Старое"}

	names.Resolve(context.Background(), 10)
	users.users[10].DisplayName = "Новое"

	names.Invalidate(context.Background(), 10)
	assert.False(t, mr.Exists(fmt.Sprintf(redis.KeyDisplayName, int64(10))))
	assert.Equal(t, "Новое", names.Resolve(context.Background(), 10))
}
