// Package cache keeps per-user tag usage listings between mutations.
package cache

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/dto"
	"time"

	"github.com/sirupsen/logrus"
)

// UsageCache stores the result of listing tags with their scanned usage.
// Get reports a miss with ok == false.
//
// Every user has a generation that Invalidate bumps. Callers read it with
// Generation before scanning and pass it to Set, which drops the listing
// when an Invalidate happened in between.
type UsageCache interface {
	Get(ctx context.Context, userID entity.UserID) (tags []dto.TagWithUsage, ok bool, err error)
	Generation(ctx context.Context, userID entity.UserID) (uint64, error)
	Set(ctx context.Context, userID entity.UserID, generation uint64, tags []dto.TagWithUsage) error
	Invalidate(ctx context.Context, userID entity.UserID) error
}

// New returns a redis-backed cache when redisURL is set, otherwise an
// in-process one. A zero ttl disables caching.
func New(redisURL string, ttl time.Duration) (UsageCache, error) {
	if ttl <= 0 {
		return Noop{}, nil
	}
	if redisURL == "" {
		logrus.Info("usage cache: in-memory")
		return NewMemoryCache(ttl, time.Now), nil
	}
	c, err := NewRedisCache(redisURL, ttl)
	if err != nil {
		return nil, err
	}
	logrus.Info("usage cache: redis")
	return c, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, entity.UserID) ([]dto.TagWithUsage, bool, error) {
	return nil, false, nil
}

func (Noop) Generation(context.Context, entity.UserID) (uint64, error) { return 0, nil }

func (Noop) Set(context.Context, entity.UserID, uint64, []dto.TagWithUsage) error { return nil }

func (Noop) Invalidate(context.Context, entity.UserID) error { return nil }
