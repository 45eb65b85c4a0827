package model

import (
	"context"
	"path/filepath"
	"posta/internal/cache"
	"posta/internal/config"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAllTagUsageDropsCachedListings(t *testing.T) {
	ctx := context.Background()
	repo, err := InitRepository(&config.Config{DBType: "sqlite", DBPath: filepath.Join(t.TempDir(), "posta.db")})
	require.NoError(t, err)
	require.NotNil(t, repo)

	user := &db.User{ID: entity.NewUserID(), Email: "a@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, repo.CreateUser(ctx, user))

	usage := cache.NewMemoryCache(time.Hour, nil)
	// a listing left behind by an earlier process
	require.NoError(t, usage.Set(ctx, user.ID, 0, []dto.TagWithUsage{{Tag: dto.Tag{Name: "ghost", UsageCount: 3}}}))

	require.NoError(t, ReconcileAllTagUsage(ctx, repo, usage))

	_, ok, err := usage.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
