package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"posta/internal/entity/converter"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/metrics"

	"github.com/sirupsen/logrus"
)

const maxTagLength = 64

// TagService 标签注册表及其与内容记录的关联。
type TagService struct {
	*base
}

func normalizeTagName(name string) (string, error) {
	normalized := common.NormalizeTag(name)
	if normalized == "" {
		return "", invalidArgument("tag name is required")
	}
	if len([]rune(normalized)) > maxTagLength {
		return "", invalidArgument("tag name is longer than %d characters", maxTagLength)
	}
	return normalized, nil
}

// normalizeTags canonicalises a tag list from a create or update request.
// Blank entries and repeats are dropped; an over-long name fails the request.
func normalizeTags(names []string) (common.StringArray, error) {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if common.NormalizeTag(name) == "" {
			continue
		}
		normalized, err := normalizeTagName(name)
		if err != nil {
			return nil, err
		}
		valid = append(valid, normalized)
	}
	return common.NormalizeTags(valid), nil
}

func checkItemKind(kind entity.ItemKind) error {
	for _, k := range entity.ItemKinds {
		if k == kind {
			return nil
		}
	}
	return invalidArgument("unknown item type %q", kind)
}

func (s *TagService) List(ctx context.Context, userID entity.UserID) ([]db.Tag, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListTags(ctx, userID)
}

// ListWithUsage pairs every registry entry with the count found by scanning
// the caller's content. Results are served from the usage cache when fresh.
func (s *TagService) ListWithUsage(ctx context.Context, userID entity.UserID) ([]dto.TagWithUsage, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if s.usage != nil {
		cached, ok, err := s.usage.Get(ctx, userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("failed to read tag usage cache")
		} else {
			metrics.TrackUsageCache(ok)
			if ok {
				return cached, nil
			}
		}
	}

	// read before scanning; a mutation that lands mid-scan bumps it and
	// keeps this result out of the cache
	var generation uint64
	cacheable := s.usage != nil
	if cacheable {
		var err error
		if generation, err = s.usage.Generation(ctx, userID); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("failed to read tag usage generation")
			cacheable = false
		}
	}

	tags, err := s.repo.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountTagUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := converter.TagsWithUsage(tags, counts)

	if cacheable {
		if err := s.usage.Set(ctx, userID, generation, result); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("failed to write tag usage cache")
		}
	}
	return result, nil
}

// CreateOrUpdate registers the name with a zero counter, or only changes the
// color of an existing tag.
func (s *TagService) CreateOrUpdate(ctx context.Context, userID entity.UserID, req dto.TagUpsertRequest) (*db.Tag, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name, err := normalizeTagName(req.Name)
	if err != nil {
		return nil, err
	}
	tag, err := s.repo.UpsertTag(ctx, userID, name, req.Color, s.clock())
	if err != nil {
		return nil, translateRepoError(err)
	}
	s.invalidateUsage(ctx, userID)
	metrics.TrackContentOperation("tags", "upsert")
	return tag, nil
}

// Delete strips the tag from all of the caller's content and removes it.
func (s *TagService) Delete(ctx context.Context, userID entity.UserID, id entity.TagID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	tag, err := s.repo.DeleteTag(ctx, userID, id, s.clock())
	if err != nil {
		return translateRepoError(err)
	}
	s.invalidateUsage(ctx, userID)
	metrics.TrackContentOperation("tags", "delete")
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"tag":     tag.Name,
	}).Info("tag deleted")
	return nil
}

// AddToItem tags one content record. Adding a tag the record already has is
// a no-op.
func (s *TagService) AddToItem(ctx context.Context, userID entity.UserID, kind entity.ItemKind, itemID string, name string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := checkItemKind(kind); err != nil {
		return err
	}
	normalized, err := normalizeTagName(name)
	if err != nil {
		return err
	}
	added, err := s.repo.AddTagToItem(ctx, userID, kind, itemID, normalized, s.clock())
	if err != nil {
		return translateRepoError(err)
	}
	if added {
		s.invalidateUsage(ctx, userID)
		metrics.TrackContentOperation(string(kind), "tag")
	}
	return nil
}

// RemoveFromItem untags one content record. The registry entry is kept.
func (s *TagService) RemoveFromItem(ctx context.Context, userID entity.UserID, kind entity.ItemKind, itemID string, name string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := checkItemKind(kind); err != nil {
		return err
	}
	normalized, err := normalizeTagName(name)
	if err != nil {
		return err
	}
	removed, err := s.repo.RemoveTagFromItem(ctx, userID, kind, itemID, normalized, s.clock())
	if err != nil {
		return translateRepoError(err)
	}
	if removed {
		s.invalidateUsage(ctx, userID)
		metrics.TrackContentOperation(string(kind), "untag")
	}
	return nil
}

// ContentByTag groups the caller's records carrying the tag by kind.
func (s *TagService) ContentByTag(ctx context.Context, userID entity.UserID, name string) (*db.TaggedContent, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	normalized, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	return s.repo.ListContentByTag(ctx, userID, normalized)
}

// Reconcile rewrites the caller's counters from a scan of their content.
func (s *TagService) Reconcile(ctx context.Context, userID entity.UserID) (*dto.ReconcileResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	updated, created, err := s.repo.ReconcileTagUsage(ctx, userID, s.clock())
	if err != nil {
		return nil, err
	}
	s.invalidateUsage(ctx, userID)
	return &dto.ReconcileResponse{Updated: updated, Created: created}, nil
}
