package service

import (
	"context"
	"errors"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"

	"gorm.io/gorm"
)

// AccountService 用户偏好设置与统计面板。
type AccountService struct {
	*base
}

// Settings returns the stored preferences, or the defaults when the caller
// never saved any.
func (s *AccountService) Settings(ctx context.Context, userID entity.UserID) (*db.UserSettings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	settings, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := db.DefaultUserSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *AccountService) UpdateSettings(ctx context.Context, userID entity.UserID, req dto.SettingsUpdateRequest) (*db.UserSettings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Theme != nil && !oneOf(*req.Theme, "light", "dark", "system") {
		return nil, invalidArgument("unknown theme %q", *req.Theme)
	}
	if req.DefaultView != nil && !oneOf(*req.DefaultView, "projects", "inbox", "recent") {
		return nil, invalidArgument("unknown default view %q", *req.DefaultView)
	}
	updates := entity.SettingsUpdates{
		Theme:            req.Theme,
		DefaultView:      req.DefaultView,
		CompactMode:      req.CompactMode,
		ShowPreviewCards: req.ShowPreviewCards,
	}
	settings, err := s.repo.UpsertSettings(ctx, userID, updates, s.clock())
	if err != nil {
		return nil, translateRepoError(err)
	}
	return settings, nil
}

// Stats returns the caller's content counters.
func (s *AccountService) Stats(ctx context.Context, userID entity.UserID) (*db.ContentCounts, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.CountContent(ctx, userID)
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
