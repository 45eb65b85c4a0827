package sql

import (
	"context"
	"errors"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"posta/internal/entity/db"
	"time"

	"gorm.io/gorm"
)

// ListTags returns the caller's tags, newest first.
func (r *GormRepository) ListTags(ctx context.Context, userID entity.UserID) ([]db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var tags []db.Tag
	query := newestFirst(ownedBy(r.db.WithContext(ctx).Model(&db.Tag{}), userID))
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTagByName loads a tag by its normalised name.
func (r *GormRepository) GetTagByName(ctx context.Context, userID entity.UserID, name string) (*db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var tag db.Tag
	err := ownedBy(r.db.WithContext(ctx), userID).
		Where("name = ?", common.NormalizeTag(name)).
		Take(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpsertTag creates the tag with a zero counter, or only updates the color
// when the name is already registered.
func (r *GormRepository) UpsertTag(ctx context.Context, userID entity.UserID, name string, color *string, now time.Time) (*db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	normalized := common.NormalizeTag(name)
	if normalized == "" {
		return nil, fmt.Errorf("tag name is empty")
	}

	var tag db.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := ownedBy(tx, userID).Where("name = ?", normalized).Take(&tag).Error
		switch {
		case err == nil:
			if color == nil {
				return nil
			}
			if err := tx.Model(&db.Tag{}).Where("id = ?", tag.ID).Update("color", *color).Error; err != nil {
				return err
			}
			tag.Color = color
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			tag = db.Tag{
				ID:         entity.NewTagID(),
				UserID:     userID,
				Name:       normalized,
				Color:      color,
				UsageCount: 0,
				CreatedAt:  now,
			}
			return tx.Create(&tag).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag strips the tag from every record of the user and removes the
// registry row, all in one transaction.
func (r *GormRepository) DeleteTag(ctx context.Context, userID entity.UserID, id entity.TagID, now time.Time) (*db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var tag db.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&tag).Error; err != nil {
			return err
		}

		for _, kind := range entity.ItemKinds {
			table, _ := tableFor(kind)
			var rows []taggedRow
			if err := ownedBy(tx.Table(table), userID).Select("id", "tags", "updated_at").Find(&rows).Error; err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			for _, row := range rows {
				if !row.Tags.Contains(tag.Name) {
					continue
				}
				updates := map[string]interface{}{
					"tags":       row.Tags.Without(tag.Name),
					"updated_at": entity.TouchedAt(row.UpdatedAt, now),
				}
				if err := tx.Table(table).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
					return fmt.Errorf("strip tag from %s %s: %w", table, row.ID, err)
				}
			}
		}

		result := tx.Where("id = ?", tag.ID).Delete(&db.Tag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// AddTagToItem appends the tag to one record and bumps the counter. It
// reports false when the record already carries the tag.
func (r *GormRepository) AddTagToItem(ctx context.Context, userID entity.UserID, kind entity.ItemKind, itemID string, name string, now time.Time) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	normalized := common.NormalizeTag(name)
	if normalized == "" {
		return false, fmt.Errorf("tag name is empty")
	}

	added := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadTaggedRow(tx, table, userID, itemID)
		if err != nil {
			return err
		}
		if row.Tags.Contains(normalized) {
			return nil
		}

		next := append(row.Tags.ToSlice(), normalized)
		updates := map[string]interface{}{
			"tags":       common.StringArray(next),
			"updated_at": entity.TouchedAt(row.UpdatedAt, now),
		}
		if err := tx.Table(table).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}
		added = true
		return adjustTagUsage(tx, userID, nil, common.StringArray{normalized}, now)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// RemoveTagFromItem drops the tag from one record and decrements the counter,
// floored at zero. The registry row is kept.
func (r *GormRepository) RemoveTagFromItem(ctx context.Context, userID entity.UserID, kind entity.ItemKind, itemID string, name string, now time.Time) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	normalized := common.NormalizeTag(name)

	removed := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadTaggedRow(tx, table, userID, itemID)
		if err != nil {
			return err
		}
		if !row.Tags.Contains(normalized) {
			return nil
		}

		updates := map[string]interface{}{
			"tags":       row.Tags.Without(normalized),
			"updated_at": entity.TouchedAt(row.UpdatedAt, now),
		}
		if err := tx.Table(table).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}
		removed = true
		return adjustTagUsage(tx, userID, common.StringArray{normalized}, nil, now)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// CountTagUsage scans the four content tables and counts, per tag name, how
// many of the user's records carry it.
func (r *GormRepository) CountTagUsage(ctx context.Context, userID entity.UserID) (map[string]int64, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return countTagUsage(r.db.WithContext(ctx), userID)
}

// ListContentByTag returns the user's records carrying the tag, grouped by
// kind and newest first.
func (r *GormRepository) ListContentByTag(ctx context.Context, userID entity.UserID, name string) (*db.TaggedContent, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	normalized := common.NormalizeTag(name)
	tx := r.db.WithContext(ctx)

	var projects []db.Project
	if err := newestFirst(ownedBy(tx, userID)).Find(&projects).Error; err != nil {
		return nil, err
	}
	var scripts []db.Script
	if err := newestFirst(ownedBy(tx, userID)).Find(&scripts).Error; err != nil {
		return nil, err
	}
	var notes []db.Note
	if err := newestFirst(ownedBy(tx, userID)).Find(&notes).Error; err != nil {
		return nil, err
	}
	var inspirations []db.Inspiration
	if err := newestFirst(ownedBy(tx, userID)).Find(&inspirations).Error; err != nil {
		return nil, err
	}

	content := &db.TaggedContent{
		Projects:     make([]db.Project, 0),
		Scripts:      make([]db.Script, 0),
		Notes:        make([]db.Note, 0),
		Inspirations: make([]db.Inspiration, 0),
	}
	for _, p := range projects {
		if p.Tags.Contains(normalized) {
			content.Projects = append(content.Projects, p)
		}
	}
	for _, s := range scripts {
		if s.Tags.Contains(normalized) {
			content.Scripts = append(content.Scripts, s)
		}
	}
	for _, n := range notes {
		if n.Tags.Contains(normalized) {
			content.Notes = append(content.Notes, n)
		}
	}
	for _, i := range inspirations {
		if i.Tags.Contains(normalized) {
			content.Inspirations = append(content.Inspirations, i)
		}
	}
	return content, nil
}

// ReconcileTagUsage rewrites every stored counter with the scanned count and
// registers names that are used but missing from the registry.
func (r *GormRepository) ReconcileTagUsage(ctx context.Context, userID entity.UserID, now time.Time) (int, int, error) {
	if err := r.ready(); err != nil {
		return 0, 0, err
	}

	updated, created := 0, 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counts, err := countTagUsage(tx, userID)
		if err != nil {
			return err
		}

		var tags []db.Tag
		if err := ownedBy(tx, userID).Find(&tags).Error; err != nil {
			return err
		}
		registered := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			registered[tag.Name] = struct{}{}
			actual := counts[tag.Name]
			if tag.UsageCount == actual {
				continue
			}
			if err := tx.Model(&db.Tag{}).Where("id = ?", tag.ID).Update("usage_count", actual).Error; err != nil {
				return err
			}
			updated++
		}

		for name, count := range counts {
			if _, ok := registered[name]; ok {
				continue
			}
			tag := db.Tag{
				ID:         entity.NewTagID(),
				UserID:     userID,
				Name:       name,
				UsageCount: count,
				CreatedAt:  now,
			}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return updated, created, nil
}

func loadTaggedRow(tx *gorm.DB, table string, userID entity.UserID, id string) (*taggedRow, error) {
	var row taggedRow
	err := ownedBy(tx.Table(table), userID).
		Select("id", "tags", "updated_at").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func countTagUsage(tx *gorm.DB, userID entity.UserID) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, kind := range entity.ItemKinds {
		table, _ := tableFor(kind)
		var rows []taggedRow
		if err := ownedBy(tx.Table(table), userID).Select("id", "tags", "updated_at").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for _, row := range rows {
			for _, name := range common.NormalizeTags(row.Tags) {
				counts[name]++
			}
		}
	}
	return counts, nil
}

// adjustTagUsage moves registry counters from the before tag set to the after
// tag set. Added names are registered when missing; removed names are
// decremented, floored at zero. Must run inside the write's transaction.
func adjustTagUsage(tx *gorm.DB, userID entity.UserID, before, after common.StringArray, now time.Time) error {
	added, removed := diffTags(before, after)

	for _, name := range added {
		result := tx.Model(&db.Tag{}).
			Where("user_id = ? AND name = ?", userID, name).
			UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			continue
		}
		tag := db.Tag{
			ID:         entity.NewTagID(),
			UserID:     userID,
			Name:       name,
			UsageCount: 1,
			CreatedAt:  now,
		}
		if err := tx.Create(&tag).Error; err != nil {
			return err
		}
	}

	for _, name := range removed {
		err := tx.Model(&db.Tag{}).
			Where("user_id = ? AND name = ?", userID, name).
			UpdateColumn("usage_count", gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")).
			Error
		if err != nil {
			return err
		}
	}
	return nil
}

// diffTags returns the names present only in after and only in before.
func diffTags(before, after common.StringArray) (added, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, name := range before {
		beforeSet[name] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after))
	for _, name := range after {
		if _, dup := afterSet[name]; dup {
			continue
		}
		afterSet[name] = struct{}{}
		if _, ok := beforeSet[name]; !ok {
			added = append(added, name)
		}
	}
	seen := make(map[string]struct{}, len(before))
	for _, name := range before {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := afterSet[name]; !ok {
			removed = append(removed, name)
		}
	}
	return added, removed
}
