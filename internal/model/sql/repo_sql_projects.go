package sql

import (
	"context"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"

	"gorm.io/gorm"
)

// CreateProject inserts the project and registers its tags.
func (r *GormRepository) CreateProject(ctx context.Context, project *db.Project) error {
	if err := r.ready(); err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, project.UserID, nil, project.Tags, project.CreatedAt)
	})
}

// GetProject loads one project owned by the user.
func (r *GormRepository) GetProject(ctx context.Context, userID entity.UserID, id entity.ProjectID) (*db.Project, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var project db.Project
	if err := ownedBy(r.db.WithContext(ctx), userID).Where("id = ?", id).Take(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns the user's projects, newest first.
func (r *GormRepository) ListProjects(ctx context.Context, userID entity.UserID) ([]db.Project, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var projects []db.Project
	if err := newestFirst(ownedBy(r.db.WithContext(ctx), userID)).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject applies the supplied fields, bumps updated_at and moves tag
// counters when the tag list changes.
func (r *GormRepository) UpdateProject(ctx context.Context, userID entity.UserID, id entity.ProjectID, updates entity.ProjectUpdates, now time.Time) (*db.Project, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var project db.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&project).Error; err != nil {
			return err
		}
		values := updates.ToMap()
		values["updated_at"] = entity.TouchedAt(project.UpdatedAt, now)
		if err := tx.Model(&db.Project{}).Where("id = ?", project.ID).Updates(values).Error; err != nil {
			return err
		}
		if updates.Tags != nil {
			if err := adjustTagUsage(tx, userID, project.Tags, *updates.Tags, now); err != nil {
				return err
			}
		}
		project = db.Project{}
		return tx.Where("id = ?", id).Take(&project).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes the project. Scripts, notes and inspirations keep
// their project_id.
func (r *GormRepository) DeleteProject(ctx context.Context, userID entity.UserID, id entity.ProjectID) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project db.Project
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&project).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", project.ID).Delete(&db.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return adjustTagUsage(tx, userID, project.Tags, nil, time.Now())
	})
}
