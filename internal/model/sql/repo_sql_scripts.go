package sql

import (
	"context"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"

	"gorm.io/gorm"
)

func applyDocumentFilter(tx *gorm.DB, filter entity.DocumentFilter) *gorm.DB {
	switch {
	case filter.InboxOnly:
		return tx.Where("project_id IS NULL")
	case filter.ProjectID != nil:
		return tx.Where("project_id = ?", *filter.ProjectID)
	default:
		return tx
	}
}

// CreateScript inserts the script and registers its tags.
func (r *GormRepository) CreateScript(ctx context.Context, script *db.Script) error {
	if err := r.ready(); err != nil {
		return err
	}
	if script == nil {
		return fmt.Errorf("script is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(script).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, script.UserID, nil, script.Tags, script.CreatedAt)
	})
}

// GetScript loads one script owned by the user.
func (r *GormRepository) GetScript(ctx context.Context, userID entity.UserID, id entity.ScriptID) (*db.Script, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var script db.Script
	if err := ownedBy(r.db.WithContext(ctx), userID).Where("id = ?", id).Take(&script).Error; err != nil {
		return nil, err
	}
	return &script, nil
}

// ListScripts returns the user's scripts, newest first.
func (r *GormRepository) ListScripts(ctx context.Context, userID entity.UserID, filter entity.DocumentFilter) ([]db.Script, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var scripts []db.Script
	query := newestFirst(applyDocumentFilter(ownedBy(r.db.WithContext(ctx), userID), filter))
	if err := query.Find(&scripts).Error; err != nil {
		return nil, err
	}
	return scripts, nil
}

// UpdateScript applies the supplied fields and bumps updated_at.
func (r *GormRepository) UpdateScript(ctx context.Context, userID entity.UserID, id entity.ScriptID, updates entity.DocumentUpdates, now time.Time) (*db.Script, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var script db.Script
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&script).Error; err != nil {
			return err
		}
		values := updates.ToMap()
		values["updated_at"] = entity.TouchedAt(script.UpdatedAt, now)
		if err := tx.Model(&db.Script{}).Where("id = ?", script.ID).Updates(values).Error; err != nil {
			return err
		}
		if updates.Tags != nil {
			if err := adjustTagUsage(tx, userID, script.Tags, *updates.Tags, now); err != nil {
				return err
			}
		}
		script = db.Script{}
		return tx.Where("id = ?", id).Take(&script).Error
	})
	if err != nil {
		return nil, err
	}
	return &script, nil
}

// DeleteScript removes the script and releases its tags.
func (r *GormRepository) DeleteScript(ctx context.Context, userID entity.UserID, id entity.ScriptID) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var script db.Script
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&script).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", script.ID).Delete(&db.Script{}).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, userID, script.Tags, nil, time.Now())
	})
}
