package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"posta/internal/entity/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreateGetRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	created, err := env.svc.Projects.Create(ctx, alice, dto.ProjectCreateRequest{
		Title:       "  Spring series ",
		Description: strPtr("weekly uploads"),
		Tags:        []string{"Video", "video", " "},
	})
	require.NoError(t, err)

	got, err := env.svc.Projects.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring series", got.Title)
	assert.Equal(t, "weekly uploads", *got.Description)
	assert.Equal(t, common.StringArray{"video"}, got.Tags)
	assert.Equal(t, alice, got.UserID)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(env.clock.Now()))
}

func TestProjectCreateDefaultsTags(t *testing.T) {
	env := newTestEnv(t)

	project, err := env.svc.Projects.Create(context.Background(), entity.NewUserID(), dto.ProjectCreateRequest{Title: "No tags"})
	require.NoError(t, err)
	assert.NotNil(t, project.Tags)
	assert.Empty(t, project.Tags)
	assert.Nil(t, project.Description)
}

func TestProjectUpdateIsPartialAndMonotonic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := entity.NewUserID()
	project := env.project(t, alice, "Original", "a")
	createdAt := project.CreatedAt

	env.clock.Advance(time.Minute)
	updated, err := env.svc.Projects.Update(ctx, alice, project.ID, dto.ProjectUpdateRequest{Description: strPtr("added")})
	require.NoError(t, err)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, common.StringArray{"a"}, updated.Tags)
	assert.Equal(t, "added", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(createdAt))
	assert.True(t, updated.CreatedAt.Equal(createdAt))

	// a clock running behind never moves updatedAt backwards
	stored := updated.UpdatedAt
	env.clock.Advance(-time.Hour)
	again, err := env.svc.Projects.Update(ctx, alice, project.ID, dto.ProjectUpdateRequest{Title: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Title)
	assert.False(t, again.UpdatedAt.Before(stored))
}

func TestProjectRejectsBlankTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	_, err := env.svc.Projects.Create(ctx, alice, dto.ProjectCreateRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	project := env.project(t, alice, "Kept")
	_, err = env.svc.Projects.Update(ctx, alice, project.ID, dto.ProjectUpdateRequest{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestProjectOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := entity.NewUserID(), entity.NewUserID()
	project := env.project(t, alice, "Mine")

	_, err := env.svc.Projects.Get(ctx, bob, project.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrAccessDenied)

	_, err = env.svc.Projects.Update(ctx, bob, project.ID, dto.ProjectUpdateRequest{Title: strPtr("Theirs")})
	assert.ErrorIs(t, err, ErrNotFoundOrAccessDenied)

	assert.ErrorIs(t, env.svc.Projects.Delete(ctx, bob, project.ID), ErrNotFoundOrAccessDenied)

	_, err = env.svc.Projects.Get(ctx, alice, entity.NewProjectID())
	assert.ErrorIs(t, err, ErrNotFoundOrAccessDenied)

	got, err := env.svc.Projects.Get(ctx, alice, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestProjectRequiresCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Projects.List(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.svc.Projects.Create(ctx, "", dto.ProjectCreateRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestProjectDeletionLeavesChildrenDangling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := entity.NewUserID()
	project := env.project(t, alice, "Doomed")
	projectID := project.ID.String()

	script, err := env.svc.Scripts.Create(ctx, alice, dto.DocumentCreateRequest{Title: "child", ProjectID: &projectID})
	require.NoError(t, err)
	inspiration, err := env.svc.Inspirations.Create(ctx, alice, dto.InspirationCreateRequest{
		Type: entity.InspirationLink, Title: "ref", URL: strPtr("https://example.com"), ProjectID: &projectID,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Projects.Delete(ctx, alice, project.ID))

	orphan, err := env.svc.Scripts.Get(ctx, alice, script.ID)
	require.NoError(t, err)
	require.NotNil(t, orphan.ProjectID)
	assert.Equal(t, project.ID, *orphan.ProjectID)

	byProject, err := env.svc.Inspirations.ListByProject(ctx, alice, project.ID)
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, inspiration.ID, byProject[0].ID)
}
