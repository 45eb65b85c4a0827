package sql

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"posta/internal/entity/db"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) (*GormRepository, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(db.AllModels()...))
	return NewGormRepository(gdb), gdb
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newProject(userID entity.UserID, title string, tags ...string) *db.Project {
	return &db.Project{
		ID:        entity.NewProjectID(),
		UserID:    userID,
		Title:     title,
		Tags:      common.NormalizeTags(tags),
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func newScript(userID entity.UserID, projectID *entity.ProjectID, title string, tags ...string) *db.Script {
	return &db.Script{
		ID:        entity.NewScriptID(),
		UserID:    userID,
		ProjectID: projectID,
		Title:     title,
		Content:   entity.DefaultBlocks(),
		Tags:      common.NormalizeTags(tags),
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func newNote(userID entity.UserID, title string, tags ...string) *db.Note {
	return &db.Note{
		ID:        entity.NewNoteID(),
		UserID:    userID,
		Title:     title,
		Content:   entity.DefaultBlocks(),
		Tags:      common.NormalizeTags(tags),
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func newInspiration(userID entity.UserID, title string, tags ...string) *db.Inspiration {
	url := "https://example.com/" + title
	return &db.Inspiration{
		ID:        entity.NewInspirationID(),
		UserID:    userID,
		Type:      entity.InspirationLink,
		Title:     title,
		URL:       &url,
		Tags:      common.NormalizeTags(tags),
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func usageOf(t *testing.T, repo *GormRepository, userID entity.UserID, name string) int64 {
	t.Helper()
	tag, err := repo.GetTagByName(context.Background(), userID, name)
	require.NoError(t, err)
	return tag.UsageCount
}

func TestProjectLifecycle(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	project := newProject(alice, "Launch", "Video", "draft")
	require.NoError(t, repo.CreateProject(ctx, project))

	got, err := repo.GetProject(ctx, alice, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Title)
	assert.Equal(t, common.StringArray{"video", "draft"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, int64(1), usageOf(t, repo, alice, "video"))

	t.Run("partial update keeps other fields", func(t *testing.T) {
		desc := "first cut"
		later := baseTime.Add(time.Hour)
		updated, err := repo.UpdateProject(ctx, alice, project.ID, entity.ProjectUpdates{Description: &desc}, later)
		require.NoError(t, err)
		assert.Equal(t, "Launch", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "first cut", *updated.Description)
		assert.True(t, updated.UpdatedAt.Equal(later))
		assert.True(t, updated.CreatedAt.Equal(baseTime))
	})

	t.Run("updated_at never moves backwards", func(t *testing.T) {
		title := "Relaunch"
		updated, err := repo.UpdateProject(ctx, alice, project.ID, entity.ProjectUpdates{Title: &title}, baseTime.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "Relaunch", updated.Title)
		assert.True(t, updated.UpdatedAt.Equal(baseTime.Add(time.Hour)))
	})

	t.Run("empty description clears it", func(t *testing.T) {
		empty := ""
		updated, err := repo.UpdateProject(ctx, alice, project.ID, entity.ProjectUpdates{Description: &empty}, baseTime.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
	})

	t.Run("tag change moves counters", func(t *testing.T) {
		tags := common.StringArray{"draft", "final"}
		_, err := repo.UpdateProject(ctx, alice, project.ID, entity.ProjectUpdates{Tags: &tags}, baseTime.Add(3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), usageOf(t, repo, alice, "video"))
		assert.Equal(t, int64(1), usageOf(t, repo, alice, "draft"))
		assert.Equal(t, int64(1), usageOf(t, repo, alice, "final"))
	})

	t.Run("delete releases tags", func(t *testing.T) {
		require.NoError(t, repo.DeleteProject(ctx, alice, project.ID))
		_, err := repo.GetProject(ctx, alice, project.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Equal(t, int64(0), usageOf(t, repo, alice, "draft"))
	})
}

func TestOwnershipIsolation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice, bob := entity.NewUserID(), entity.NewUserID()

	project := newProject(alice, "Private")
	require.NoError(t, repo.CreateProject(ctx, project))
	script := newScript(alice, nil, "Secret")
	require.NoError(t, repo.CreateScript(ctx, script))

	_, err := repo.GetProject(ctx, bob, project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	title := "Hijacked"
	_, err = repo.UpdateProject(ctx, bob, project.ID, entity.ProjectUpdates{Title: &title}, baseTime)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.DeleteScript(ctx, bob, script.ID), gorm.ErrRecordNotFound)

	_, err = repo.AddTagToItem(ctx, bob, entity.ItemScripts, script.ID.String(), "mine", baseTime)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	projects, err := repo.ListProjects(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, projects)

	stillThere, err := repo.GetScript(ctx, alice, script.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", stillThere.Title)
}

func TestListsAreNewestFirstAndFiltered(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	project := newProject(alice, "Series")
	require.NoError(t, repo.CreateProject(ctx, project))

	older := newScript(alice, &project.ID, "older")
	older.CreatedAt = baseTime.Add(-time.Hour)
	older.UpdatedAt = older.CreatedAt
	newer := newScript(alice, &project.ID, "newer")
	inbox := newScript(alice, nil, "inbox")
	inbox.CreatedAt = baseTime.Add(time.Hour)
	inbox.UpdatedAt = inbox.CreatedAt
	for _, s := range []*db.Script{older, newer, inbox} {
		require.NoError(t, repo.CreateScript(ctx, s))
	}

	all, err := repo.ListScripts(ctx, alice, entity.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"inbox", "newer", "older"}, []string{all[0].Title, all[1].Title, all[2].Title})

	byProject, err := repo.ListScripts(ctx, alice, entity.DocumentFilter{ProjectID: &project.ID})
	require.NoError(t, err)
	require.Len(t, byProject, 2)
	assert.Equal(t, "newer", byProject[0].Title)

	inboxOnly, err := repo.ListScripts(ctx, alice, entity.DocumentFilter{InboxOnly: true})
	require.NoError(t, err)
	require.Len(t, inboxOnly, 1)
	assert.Equal(t, "inbox", inboxOnly[0].Title)
}

func TestMoveScriptToInbox(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	project := newProject(alice, "P")
	require.NoError(t, repo.CreateProject(ctx, project))
	script := newScript(alice, &project.ID, "S")
	require.NoError(t, repo.CreateScript(ctx, script))

	updated, err := repo.UpdateScript(ctx, alice, script.ID, entity.DocumentUpdates{
		Project: &entity.ProjectAssignment{ID: nil},
	}, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, updated.ProjectID)
	assert.Len(t, updated.Content, 1)
}

func TestProjectDeletionLeavesChildrenDangling(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	project := newProject(alice, "Doomed")
	require.NoError(t, repo.CreateProject(ctx, project))
	script := newScript(alice, &project.ID, "Orphan")
	require.NoError(t, repo.CreateScript(ctx, script))

	require.NoError(t, repo.DeleteProject(ctx, alice, project.ID))

	orphan, err := repo.GetScript(ctx, alice, script.ID)
	require.NoError(t, err)
	require.NotNil(t, orphan.ProjectID)
	assert.Equal(t, project.ID, *orphan.ProjectID)

	byProject, err := repo.ListScripts(ctx, alice, entity.DocumentFilter{ProjectID: &project.ID})
	require.NoError(t, err)
	assert.Len(t, byProject, 1)
}

func TestAddRemoveTagRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	script := newScript(alice, nil, "S")
	require.NoError(t, repo.CreateScript(ctx, script))

	_, err := repo.UpsertTag(ctx, alice, "Idea", nil, baseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(0), usageOf(t, repo, alice, "idea"))

	added, err := repo.AddTagToItem(ctx, alice, entity.ItemScripts, script.ID.String(), "  IDEA ", baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, int64(1), usageOf(t, repo, alice, "idea"))

	again, err := repo.AddTagToItem(ctx, alice, entity.ItemScripts, script.ID.String(), "idea", baseTime.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, again)
	assert.Equal(t, int64(1), usageOf(t, repo, alice, "idea"))

	got, err := repo.GetScript(ctx, alice, script.ID)
	require.NoError(t, err)
	assert.Equal(t, common.StringArray{"idea"}, got.Tags)
	assert.True(t, got.UpdatedAt.Equal(baseTime.Add(time.Minute)))

	removed, err := repo.RemoveTagFromItem(ctx, alice, entity.ItemScripts, script.ID.String(), "Idea", baseTime.Add(3*time.Minute))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(0), usageOf(t, repo, alice, "idea"))

	got, err = repo.GetScript(ctx, alice, script.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)

	// removing again keeps the counter at zero
	removed, err = repo.RemoveTagFromItem(ctx, alice, entity.ItemScripts, script.ID.String(), "idea", baseTime.Add(4*time.Minute))
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, int64(0), usageOf(t, repo, alice, "idea"))
}

func TestAddTagRegistersUnknownName(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	note := newNote(alice, "N")
	require.NoError(t, repo.CreateNote(ctx, note))

	_, err := repo.AddTagToItem(ctx, alice, entity.ItemNotes, note.ID.String(), "fresh", baseTime)
	require.NoError(t, err)

	tag, err := repo.GetTagByName(ctx, alice, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tag.UsageCount)
	assert.Equal(t, alice, tag.UserID)
}

func TestCountersAgreeWithScan(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice, bob := entity.NewUserID(), entity.NewUserID()

	project := newProject(alice, "P", "x", "y")
	script := newScript(alice, nil, "S", "x")
	note := newNote(alice, "N", "x", "z")
	inspiration := newInspiration(alice, "I", "y")
	require.NoError(t, repo.CreateProject(ctx, project))
	require.NoError(t, repo.CreateScript(ctx, script))
	require.NoError(t, repo.CreateNote(ctx, note))
	require.NoError(t, repo.CreateInspiration(ctx, inspiration))
	require.NoError(t, repo.CreateNote(ctx, newNote(bob, "theirs", "x")))

	tags := common.StringArray{"z"}
	_, err := repo.UpdateScript(ctx, alice, script.ID, entity.DocumentUpdates{Tags: &tags}, baseTime.Add(time.Minute))
	require.NoError(t, err)
	_, err = repo.AddTagToItem(ctx, alice, entity.ItemInspirations, inspiration.ID.String(), "x", baseTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.DeleteNote(ctx, alice, note.ID))

	counts, err := repo.CountTagUsage(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"x": 2, "y": 2, "z": 1}, counts)

	registry, err := repo.ListTags(ctx, alice)
	require.NoError(t, err)
	for _, tag := range registry {
		assert.Equal(t, counts[tag.Name], tag.UsageCount, tag.Name)
	}
	assert.Equal(t, int64(1), usageOf(t, repo, bob, "x"))
}

func TestActualUsageCountAcrossTables(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	require.NoError(t, repo.CreateProject(ctx, newProject(alice, "P", "idea")))
	require.NoError(t, repo.CreateScript(ctx, newScript(alice, nil, "S", "idea")))
	require.NoError(t, repo.CreateNote(ctx, newNote(alice, "N", "idea")))

	counts, err := repo.CountTagUsage(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["idea"])
}

func TestDeleteTagSweep(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice, bob := entity.NewUserID(), entity.NewUserID()

	project := newProject(alice, "P", "temp")
	script := newScript(alice, nil, "S", "temp", "keep")
	inspiration := newInspiration(alice, "I", "temp")
	theirs := newNote(bob, "N", "temp")
	require.NoError(t, repo.CreateProject(ctx, project))
	require.NoError(t, repo.CreateScript(ctx, script))
	require.NoError(t, repo.CreateInspiration(ctx, inspiration))
	require.NoError(t, repo.CreateNote(ctx, theirs))

	tag, err := repo.GetTagByName(ctx, alice, "temp")
	require.NoError(t, err)

	later := baseTime.Add(time.Hour)
	deleted, err := repo.DeleteTag(ctx, alice, tag.ID, later)
	require.NoError(t, err)
	assert.Equal(t, "temp", deleted.Name)

	gotProject, err := repo.GetProject(ctx, alice, project.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotProject.Tags)
	assert.Empty(t, gotProject.Tags)
	assert.True(t, gotProject.UpdatedAt.Equal(later))

	gotScript, err := repo.GetScript(ctx, alice, script.ID)
	require.NoError(t, err)
	assert.Equal(t, common.StringArray{"keep"}, gotScript.Tags)

	gotInspiration, err := repo.GetInspiration(ctx, alice, inspiration.ID)
	require.NoError(t, err)
	assert.Empty(t, gotInspiration.Tags)

	_, err = repo.GetTagByName(ctx, alice, "temp")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	gotTheirs, err := repo.GetNote(ctx, bob, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, common.StringArray{"temp"}, gotTheirs.Tags)
	assert.Equal(t, int64(1), usageOf(t, repo, bob, "temp"))

	_, err = repo.DeleteTag(ctx, alice, tag.ID, later)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	bobTag, err := repo.GetTagByName(ctx, bob, "temp")
	require.NoError(t, err)
	_, err = repo.DeleteTag(ctx, alice, bobTag.ID, later)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReconcileFixesDrift(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	require.NoError(t, repo.CreateScript(ctx, newScript(alice, nil, "S", "a", "b")))
	require.NoError(t, repo.CreateNote(ctx, newNote(alice, "N", "a")))

	// simulate legacy data written without counters
	require.NoError(t, gdb.Model(&db.Tag{}).Where("user_id = ? AND name = ?", alice, "a").Update("usage_count", 7).Error)
	require.NoError(t, gdb.Where("user_id = ? AND name = ?", alice, "b").Delete(&db.Tag{}).Error)
	_, err := repo.UpsertTag(ctx, alice, "unused", nil, baseTime)
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&db.Tag{}).Where("user_id = ? AND name = ?", alice, "unused").Update("usage_count", 3).Error)

	updated, created, err := repo.ReconcileTagUsage(ctx, alice, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 1, created)

	assert.Equal(t, int64(2), usageOf(t, repo, alice, "a"))
	assert.Equal(t, int64(1), usageOf(t, repo, alice, "b"))
	assert.Equal(t, int64(0), usageOf(t, repo, alice, "unused"))

	updated, created, err = repo.ReconcileTagUsage(ctx, alice, baseTime)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Zero(t, created)
}

func TestUpsertTagOnlyUpdatesColor(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	require.NoError(t, repo.CreateScript(ctx, newScript(alice, nil, "S", "hue")))

	red := "red"
	tag, err := repo.UpsertTag(ctx, alice, "HUE", &red, baseTime.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, tag.Color)
	assert.Equal(t, "red", *tag.Color)
	assert.Equal(t, int64(1), tag.UsageCount)
	assert.True(t, tag.CreatedAt.Equal(baseTime))

	tags, err := repo.ListTags(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestListContentByTag(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice, bob := entity.NewUserID(), entity.NewUserID()

	require.NoError(t, repo.CreateProject(ctx, newProject(alice, "P", "focus")))
	require.NoError(t, repo.CreateScript(ctx, newScript(alice, nil, "S1", "focus")))
	require.NoError(t, repo.CreateScript(ctx, newScript(alice, nil, "S2", "other")))
	require.NoError(t, repo.CreateScript(ctx, newScript(bob, nil, "S3", "focus")))

	content, err := repo.ListContentByTag(ctx, alice, "Focus")
	require.NoError(t, err)
	assert.Len(t, content.Projects, 1)
	require.Len(t, content.Scripts, 1)
	assert.Equal(t, "S1", content.Scripts[0].Title)
	assert.NotNil(t, content.Notes)
	assert.Empty(t, content.Notes)
	assert.Empty(t, content.Inspirations)
}

func TestSettingsUpsert(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	_, err := repo.GetSettings(ctx, alice)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dark := "dark"
	settings, err := repo.UpsertSettings(ctx, alice, entity.SettingsUpdates{Theme: &dark}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "projects", settings.DefaultView)
	assert.True(t, settings.ShowPreviewCards)

	compact := true
	settings, err = repo.UpsertSettings(ctx, alice, entity.SettingsUpdates{CompactMode: &compact}, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.True(t, settings.CompactMode)
}

func TestCountContent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	alice := entity.NewUserID()

	project := newProject(alice, "P", "t")
	require.NoError(t, repo.CreateProject(ctx, project))
	require.NoError(t, repo.CreateScript(ctx, newScript(alice, &project.ID, "S1")))
	require.NoError(t, repo.CreateScript(ctx, newScript(alice, nil, "S2")))
	require.NoError(t, repo.CreateNote(ctx, newNote(alice, "N")))

	counts, err := repo.CountContent(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, db.ContentCounts{
		Projects:     1,
		Scripts:      2,
		InboxScripts: 1,
		Notes:        1,
		Inspirations: 0,
		Tags:         1,
	}, *counts)
}

func TestDiffTags(t *testing.T) {
	added, removed := diffTags(common.StringArray{"a", "b"}, common.StringArray{"b", "c", "c"})
	assert.Equal(t, []string{"c"}, added)
	assert.Equal(t, []string{"a"}, removed)

	added, removed = diffTags(nil, nil)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}
