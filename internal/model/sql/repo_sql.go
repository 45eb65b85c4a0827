package sql

import (
	"errors"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"time"

	"gorm.io/gorm"
)

var errNotInitialised = errors.New("repository not initialised")

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ready() error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return nil
}

// taggedRow is the projection shared by the four content tables for tag work.
type taggedRow struct {
	ID        string
	Tags      common.StringArray
	UpdatedAt time.Time
}

// tableFor maps an item kind to its table. Kinds are named after the tables.
func tableFor(kind entity.ItemKind) (string, error) {
	switch kind {
	case entity.ItemProjects, entity.ItemScripts, entity.ItemNotes, entity.ItemInspirations:
		return string(kind), nil
	default:
		return "", errors.New("unknown item kind: " + string(kind))
	}
}

func ownedBy(tx *gorm.DB, userID entity.UserID) *gorm.DB {
	return tx.Where("user_id = ?", userID)
}

func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at DESC").Order("id DESC")
}
