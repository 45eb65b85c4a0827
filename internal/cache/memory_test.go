package cache

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestMemoryCacheRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Minute, clock.Now)
	ctx := context.Background()
	user := entity.NewUserID()

	_, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	tags := []dto.TagWithUsage{{Tag: dto.Tag{Name: "idea", UsageCount: 2}, ActualUsageCount: 2}}
	require.NoError(t, c.Set(ctx, user, 0, tags))

	// later edits to the caller's slice do not leak into the cache
	tags[0].Name = "changed"

	got, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "idea", got[0].Name)

	_, ok, _ = c.Get(ctx, entity.NewUserID())
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Minute, clock.Now)
	ctx := context.Background()
	user := entity.NewUserID()

	require.NoError(t, c.Set(ctx, user, 0, []dto.TagWithUsage{}))

	clock.t = clock.t.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, user)
	assert.True(t, ok)

	clock.t = clock.t.Add(time.Second)
	_, ok, _ = c.Get(ctx, user)
	assert.False(t, ok)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryCache(time.Hour, nil)
	ctx := context.Background()
	user := entity.NewUserID()

	require.NoError(t, c.Set(ctx, user, 0, []dto.TagWithUsage{{Tag: dto.Tag{Name: "a"}}}))
	require.NoError(t, c.Invalidate(ctx, user))

	_, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	// invalidating an absent entry is fine
	require.NoError(t, c.Invalidate(ctx, user))
}

func TestMemoryCacheDropsListingFromOlderGeneration(t *testing.T) {
	c := NewMemoryCache(time.Hour, nil)
	ctx := context.Background()
	user := entity.NewUserID()

	gen, err := c.Generation(ctx, user)
	require.NoError(t, err)

	// a mutation lands while the listing is being computed
	require.NoError(t, c.Invalidate(ctx, user))
	require.NoError(t, c.Set(ctx, user, gen, []dto.TagWithUsage{{Tag: dto.Tag{Name: "stale"}}}))

	_, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := c.Generation(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	require.NoError(t, c.Set(ctx, user, next, []dto.TagWithUsage{{Tag: dto.Tag{Name: "fresh"}}}))
	got, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh", got[0].Name)

	// generations are per user
	other, err := c.Generation(ctx, entity.NewUserID())
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestNewSelectsBackend(t *testing.T) {
	c, err := New("", 0)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)

	c, err = New("", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New("not-a-redis-url", time.Minute)
	assert.Error(t, err)
}
