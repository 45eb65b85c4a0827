package service

import (
	"context"
	"posta/internal/auth"
	"posta/internal/cache"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/model"
	"posta/internal/model/sql"
	"posta/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	svc      *Services
	repo     model.Repository
	tokens   *auth.Manager
	clock    *testClock
	store    storage.Storage
	usage    *cache.MemoryCache
	storeDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(db.AllModels()...))

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/files", "/api/files/upload")
	require.NoError(t, err)

	tokens, err := auth.NewManager("test-secret", "posta-test", time.Hour)
	require.NoError(t, err)

	clock := &testClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	usage := cache.NewMemoryCache(time.Hour, clock.Now)

	repo := sql.NewGormRepository(gdb)
	svc, err := New(Options{
		Repo:              repo,
		Storage:           store,
		UsageCache:        usage,
		Tokens:            tokens,
		PresignTTL:        10 * time.Minute,
		AllowRegistration: true,
		Now:               clock.Now,
	})
	require.NoError(t, err)

	return &testEnv{svc: svc, repo: repo, tokens: tokens, clock: clock, store: store, usage: usage, storeDir: dir}
}

func (e *testEnv) project(t *testing.T, userID entity.UserID, title string, tags ...string) *db.Project {
	t.Helper()
	project, err := e.svc.Projects.Create(context.Background(), userID, dto.ProjectCreateRequest{Title: title, Tags: tags})
	require.NoError(t, err)
	return project
}

func strPtr(s string) *string { return &s }

func tagsPtr(tags ...string) *[]string { return &tags }
