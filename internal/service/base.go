package service

import (
	"context"
	"posta/internal/cache"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"posta/internal/model"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxTitleLength = 255

// base 汇集各服务共享的依赖。
type base struct {
	repo  model.Repository
	usage cache.UsageCache
	now   func() time.Time
}

func (b *base) clock() time.Time {
	return b.now().UTC()
}

// requireUser rejects calls without a caller identity.
func requireUser(userID entity.UserID) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}
	return nil
}

// checkProjectRef verifies that a referenced project exists and belongs to
// the caller. A nil reference is always valid.
func (b *base) checkProjectRef(ctx context.Context, userID entity.UserID, id *entity.ProjectID) error {
	if id == nil {
		return nil
	}
	if _, err := b.repo.GetProject(ctx, userID, *id); err != nil {
		return translateRepoError(err)
	}
	return nil
}

// invalidateUsage drops the cached usage listing of the user. Failures only
// leave a stale entry until its TTL, so they are logged and ignored.
func (b *base) invalidateUsage(ctx context.Context, userID entity.UserID) {
	if b.usage == nil {
		return
	}
	if err := b.usage.Invalidate(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to invalidate tag usage cache")
	}
}

func normalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", invalidArgument("title is required")
	}
	if len([]rune(trimmed)) > maxTitleLength {
		return "", invalidArgument("title is longer than %d characters", maxTitleLength)
	}
	return trimmed, nil
}

func normalizeOptionalTitle(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	normalized, err := normalizeTitle(*title)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}

func optionalTags(tags *[]string) (*common.StringArray, error) {
	if tags == nil {
		return nil, nil
	}
	normalized, err := normalizeTags(*tags)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}

// projectAssignment turns an optional raw project id from an update request
// into an assignment. An empty string moves the record to the inbox.
func projectAssignment(raw *string) *entity.ProjectAssignment {
	if raw == nil {
		return nil
	}
	return &entity.ProjectAssignment{ID: entity.ProjectRef(raw)}
}
