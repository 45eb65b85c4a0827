package sql

import (
	"context"
	"errors"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"

	"gorm.io/gorm"
)

// GetSettings loads the stored preferences of the user.
func (r *GormRepository) GetSettings(ctx context.Context, userID entity.UserID) (*db.UserSettings, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var settings db.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertSettings applies the updates on top of the stored preferences, or on
// top of the defaults when none are stored yet.
func (r *GormRepository) UpsertSettings(ctx context.Context, userID entity.UserID, updates entity.SettingsUpdates, now time.Time) (*db.UserSettings, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var settings db.UserSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).Take(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = db.DefaultUserSettings(userID)
			settings.CreatedAt = now
			settings.UpdatedAt = now
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		values := updates.ToMap()
		if len(values) == 0 {
			return nil
		}
		values["updated_at"] = entity.TouchedAt(settings.UpdatedAt, now)
		if err := tx.Model(&db.UserSettings{}).Where("user_id = ?", userID).Updates(values).Error; err != nil {
			return err
		}
		settings = db.UserSettings{}
		return tx.Where("user_id = ?", userID).Take(&settings).Error
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
