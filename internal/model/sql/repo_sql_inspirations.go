package sql

import (
	"context"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"

	"gorm.io/gorm"
)

func applyInspirationFilter(tx *gorm.DB, filter entity.InspirationFilter) *gorm.DB {
	if filter.ProjectID != nil {
		tx = tx.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}
	return tx
}

// CreateInspiration inserts the inspiration and registers its tags.
func (r *GormRepository) CreateInspiration(ctx context.Context, inspiration *db.Inspiration) error {
	if err := r.ready(); err != nil {
		return err
	}
	if inspiration == nil {
		return fmt.Errorf("inspiration is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inspiration).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, inspiration.UserID, nil, inspiration.Tags, inspiration.CreatedAt)
	})
}

// GetInspiration loads one inspiration owned by the user.
func (r *GormRepository) GetInspiration(ctx context.Context, userID entity.UserID, id entity.InspirationID) (*db.Inspiration, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var inspiration db.Inspiration
	if err := ownedBy(r.db.WithContext(ctx), userID).Where("id = ?", id).Take(&inspiration).Error; err != nil {
		return nil, err
	}
	return &inspiration, nil
}

// ListInspirations returns the user's inspirations, newest first.
func (r *GormRepository) ListInspirations(ctx context.Context, userID entity.UserID, filter entity.InspirationFilter) ([]db.Inspiration, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var inspirations []db.Inspiration
	query := newestFirst(applyInspirationFilter(ownedBy(r.db.WithContext(ctx), userID), filter))
	if err := query.Find(&inspirations).Error; err != nil {
		return nil, err
	}
	return inspirations, nil
}

// UpdateInspiration applies the supplied fields and bumps updated_at.
func (r *GormRepository) UpdateInspiration(ctx context.Context, userID entity.UserID, id entity.InspirationID, updates entity.InspirationUpdates, now time.Time) (*db.Inspiration, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var inspiration db.Inspiration
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&inspiration).Error; err != nil {
			return err
		}
		values := updates.ToMap()
		values["updated_at"] = entity.TouchedAt(inspiration.UpdatedAt, now)
		if err := tx.Model(&db.Inspiration{}).Where("id = ?", inspiration.ID).Updates(values).Error; err != nil {
			return err
		}
		if updates.Tags != nil {
			if err := adjustTagUsage(tx, userID, inspiration.Tags, *updates.Tags, now); err != nil {
				return err
			}
		}
		inspiration = db.Inspiration{}
		return tx.Where("id = ?", id).Take(&inspiration).Error
	})
	if err != nil {
		return nil, err
	}
	return &inspiration, nil
}

// DeleteInspiration removes the inspiration and releases its tags.
func (r *GormRepository) DeleteInspiration(ctx context.Context, userID entity.UserID, id entity.InspirationID) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inspiration db.Inspiration
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&inspiration).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", inspiration.ID).Delete(&db.Inspiration{}).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, userID, inspiration.Tags, nil, time.Now())
	})
}
