package sql

import (
	"context"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"strings"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *db.User) error {
	if err := r.ready(); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByEmail loads a user by email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var user db.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(trimmed)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id entity.UserID) (*db.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if id.IsZero() {
		return nil, fmt.Errorf("invalid user id")
	}
	var user db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserIDs returns the ids of every active user.
func (r *GormRepository) ListUserIDs(ctx context.Context) ([]entity.UserID, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var ids []entity.UserID
	if err := r.db.WithContext(ctx).Model(&db.User{}).Where("is_active = ?", true).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
