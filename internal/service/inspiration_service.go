package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/linkmeta"
	"posta/internal/metrics"
	"posta/internal/storage"
	"strings"
)

// InspirationService 灵感素材的增删改查。链接类型在写入时解析元数据。
type InspirationService struct {
	*base
}

func (s *InspirationService) List(ctx context.Context, userID entity.UserID, filter entity.InspirationFilter) ([]db.Inspiration, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListInspirations(ctx, userID, filter)
}

// ListByProject returns the caller's inspirations of one project.
func (s *InspirationService) ListByProject(ctx context.Context, userID entity.UserID, projectID entity.ProjectID) ([]db.Inspiration, error) {
	return s.List(ctx, userID, entity.InspirationFilter{ProjectID: &projectID})
}

func (s *InspirationService) Get(ctx context.Context, userID entity.UserID, id entity.InspirationID) (*db.Inspiration, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	inspiration, err := s.repo.GetInspiration(ctx, userID, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return inspiration, nil
}

// ResolveLink previews the metadata a link inspiration would get.
func (s *InspirationService) ResolveLink(userID entity.UserID, rawURL string) (entity.InspirationMetadata, error) {
	if err := requireUser(userID); err != nil {
		return entity.InspirationMetadata{}, err
	}
	return linkmeta.Resolve(rawURL), nil
}

func (s *InspirationService) Create(ctx context.Context, userID entity.UserID, req dto.InspirationCreateRequest) (*db.Inspiration, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, invalidArgument("unknown inspiration type %q", req.Type)
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	url := optionalURL(req.URL)

	var metadata entity.InspirationMetadata
	if req.Metadata != nil {
		metadata = *req.Metadata
	}
	if req.Type == entity.InspirationLink && url != nil {
		metadata = linkmeta.Resolve(*url)
	}

	var fileID *entity.FileID
	if req.FileID != nil && strings.TrimSpace(*req.FileID) != "" {
		key, err := ownedKey(userID, *req.FileID)
		if err != nil {
			return nil, err
		}
		fileID = &key
	}

	return s.insert(ctx, userID, req.Type, title, url, fileID, metadata, req.ProjectID, req.Tags)
}

func (s *InspirationService) insert(
	ctx context.Context,
	userID entity.UserID,
	kind entity.InspirationType,
	title string,
	url *string,
	fileID *entity.FileID,
	metadata entity.InspirationMetadata,
	rawProjectID *string,
	rawTags []string,
) (*db.Inspiration, error) {
	tags, err := normalizeTags(rawTags)
	if err != nil {
		return nil, err
	}
	projectID := entity.ProjectRef(rawProjectID)
	if err := s.checkProjectRef(ctx, userID, projectID); err != nil {
		return nil, err
	}

	now := s.clock()
	inspiration := &db.Inspiration{
		ID:        entity.NewInspirationID(),
		UserID:    userID,
		ProjectID: projectID,
		Type:      kind,
		Title:     title,
		URL:       url,
		FileID:    fileID,
		Metadata:  metadata,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateInspiration(ctx, inspiration); err != nil {
		return nil, translateRepoError(err)
	}
	if len(inspiration.Tags) > 0 {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemInspirations), "create")
	return inspiration, nil
}

// Update applies title, url, project and tags. A new url on a link
// inspiration re-resolves its metadata.
func (s *InspirationService) Update(ctx context.Context, userID entity.UserID, id entity.InspirationID, req dto.InspirationUpdateRequest) (*db.Inspiration, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := normalizeOptionalTitle(req.Title)
	if err != nil {
		return nil, err
	}
	tags, err := optionalTags(req.Tags)
	if err != nil {
		return nil, err
	}
	updates := entity.InspirationUpdates{
		Title:   title,
		Tags:    tags,
		Project: projectAssignment(req.ProjectID),
	}
	if updates.Project != nil {
		if err := s.checkProjectRef(ctx, userID, updates.Project.ID); err != nil {
			return nil, err
		}
	}

	if req.URL != nil {
		current, err := s.repo.GetInspiration(ctx, userID, id)
		if err != nil {
			return nil, translateRepoError(err)
		}
		url := strings.TrimSpace(*req.URL)
		if current.Type == entity.InspirationLink {
			if url == "" {
				return nil, invalidArgument("url is required for link inspirations")
			}
			metadata := linkmeta.Resolve(url)
			updates.Metadata = &metadata
		}
		updates.URL = &url
	}

	inspiration, err := s.repo.UpdateInspiration(ctx, userID, id, updates, s.clock())
	if err != nil {
		return nil, translateRepoError(err)
	}
	if updates.Tags != nil {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemInspirations), "update")
	return inspiration, nil
}

func (s *InspirationService) Delete(ctx context.Context, userID entity.UserID, id entity.InspirationID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.DeleteInspiration(ctx, userID, id); err != nil {
		return translateRepoError(err)
	}
	s.invalidateUsage(ctx, userID)
	metrics.TrackContentOperation(string(entity.ItemInspirations), "delete")
	return nil
}

func optionalURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ownedKey validates a file id and checks that it lives under the caller's
// upload prefix.
func ownedKey(userID entity.UserID, raw string) (entity.FileID, error) {
	key, err := storage.CleanKey(raw)
	if err != nil {
		return "", invalidArgument("invalid file id")
	}
	if !storage.KeyOwnedBy(key, userID.String()) {
		return "", ErrNotFoundOrAccessDenied
	}
	return entity.FileID(key), nil
}
