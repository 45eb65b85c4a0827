package sql

import (
	"context"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"

	"gorm.io/gorm"
)

// CreateNote inserts the note and registers its tags.
func (r *GormRepository) CreateNote(ctx context.Context, note *db.Note) error {
	if err := r.ready(); err != nil {
		return err
	}
	if note == nil {
		return fmt.Errorf("note is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, note.UserID, nil, note.Tags, note.CreatedAt)
	})
}

// GetNote loads one note owned by the user.
func (r *GormRepository) GetNote(ctx context.Context, userID entity.UserID, id entity.NoteID) (*db.Note, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var note db.Note
	if err := ownedBy(r.db.WithContext(ctx), userID).Where("id = ?", id).Take(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ListNotes returns the user's notes, newest first.
func (r *GormRepository) ListNotes(ctx context.Context, userID entity.UserID, filter entity.DocumentFilter) ([]db.Note, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var notes []db.Note
	query := newestFirst(applyDocumentFilter(ownedBy(r.db.WithContext(ctx), userID), filter))
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote applies the supplied fields and bumps updated_at.
func (r *GormRepository) UpdateNote(ctx context.Context, userID entity.UserID, id entity.NoteID, updates entity.DocumentUpdates, now time.Time) (*db.Note, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var note db.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&note).Error; err != nil {
			return err
		}
		values := updates.ToMap()
		values["updated_at"] = entity.TouchedAt(note.UpdatedAt, now)
		if err := tx.Model(&db.Note{}).Where("id = ?", note.ID).Updates(values).Error; err != nil {
			return err
		}
		if updates.Tags != nil {
			if err := adjustTagUsage(tx, userID, note.Tags, *updates.Tags, now); err != nil {
				return err
			}
		}
		note = db.Note{}
		return tx.Where("id = ?", id).Take(&note).Error
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes the note and releases its tags.
func (r *GormRepository) DeleteNote(ctx context.Context, userID entity.UserID, id entity.NoteID) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note db.Note
		if err := ownedBy(tx, userID).Where("id = ?", id).Take(&note).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", note.ID).Delete(&db.Note{}).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, userID, note.Tags, nil, time.Now())
	})
}
