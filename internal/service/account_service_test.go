package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	settings, err := env.svc.Account.Settings(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "system", settings.Theme)
	assert.Equal(t, "projects", settings.DefaultView)
	assert.False(t, settings.CompactMode)
	assert.True(t, settings.ShowPreviewCards)

	off := false
	settings, err = env.svc.Account.UpdateSettings(ctx, alice, dto.SettingsUpdateRequest{
		Theme:            strPtr("dark"),
		ShowPreviewCards: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.False(t, settings.ShowPreviewCards)

	settings, err = env.svc.Account.Settings(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "projects", settings.DefaultView)

	_, err = env.svc.Account.UpdateSettings(ctx, alice, dto.SettingsUpdateRequest{DefaultView: strPtr("calendar")})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := entity.NewUserID()
	project := env.project(t, alice, "P", "one")
	projectID := project.ID.String()

	_, err := env.svc.Scripts.Create(ctx, alice, dto.DocumentCreateRequest{Title: "in project", ProjectID: &projectID})
	require.NoError(t, err)
	_, err = env.svc.Scripts.Create(ctx, alice, dto.DocumentCreateRequest{Title: "inbox", Tags: []string{"two"}})
	require.NoError(t, err)
	_, err = env.svc.Inspirations.Create(ctx, alice, dto.InspirationCreateRequest{Type: entity.InspirationLink, Title: "I", URL: strPtr("https://example.com")})
	require.NoError(t, err)

	stats, err := env.svc.Account.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, db.ContentCounts{
		Projects:     1,
		Scripts:      2,
		InboxScripts: 1,
		Notes:        0,
		Inspirations: 1,
		Tags:         2,
	}, *stats)
}
