package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/metrics"
	"posta/internal/storage"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultPresignTTL = 15 * time.Minute

// FileService 文件网关：签发上传地址、获取访问地址、删除文件。
// 所有 key 都必须位于调用者自己的上传前缀下。
type FileService struct {
	*base
	store        storage.Storage
	ttl          time.Duration
	inspirations *InspirationService
}

func (s *FileService) ready() error {
	if s.store == nil {
		return fmt.Errorf("%w: file storage is not configured", ErrUnsupported)
	}
	return nil
}

// GenerateUploadURL allocates a new key under the caller's prefix and returns
// where the client should upload it.
func (s *FileService) GenerateUploadURL(ctx context.Context, userID entity.UserID, contentType string) (*dto.UploadURLResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	contentType = strings.TrimSpace(contentType)
	key := storage.BuildUploadKey(userID.String(), contentType, s.clock())
	target, err := s.store.PresignUpload(ctx, key, contentType, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &dto.UploadURLResponse{
		FileID:    key,
		UploadURL: target.URL,
		Method:    target.Method,
		Headers:   target.Headers,
		ExpiresAt: target.ExpiresAt,
	}, nil
}

// Upload stores the body under a key previously issued to the caller.
func (s *FileService) Upload(ctx context.Context, userID entity.UserID, rawKey string, body io.Reader, size int64, contentType string) (entity.FileID, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	key, err := ownedKey(userID, rawKey)
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, key.String(), body, size, contentType); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return "", invalidArgument("invalid file id")
		}
		return "", fmt.Errorf("store file: %w", err)
	}
	metrics.TrackContentOperation("files", "upload")
	return key, nil
}

// FileURL returns a retrieval URL for one of the caller's files.
func (s *FileService) FileURL(ctx context.Context, userID entity.UserID, rawKey string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	key, err := ownedKey(userID, rawKey)
	if err != nil {
		return "", err
	}
	url, err := s.store.URL(ctx, key.String(), s.ttl)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}
	return url, nil
}

// CreateImageInspiration records an uploaded image as an inspiration.
func (s *FileService) CreateImageInspiration(ctx context.Context, userID entity.UserID, req dto.ImageInspirationRequest) (*db.Inspiration, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	key, err := ownedKey(userID, req.FileID)
	if err != nil {
		return nil, err
	}
	exists, err := s.store.Exists(ctx, key.String())
	if err != nil {
		return nil, fmt.Errorf("check file: %w", err)
	}
	if !exists {
		return nil, ErrNotFoundOrAccessDenied
	}

	var metadata entity.InspirationMetadata
	if req.Metadata != nil {
		metadata = *req.Metadata
	}
	return s.inspirations.insert(ctx, userID, entity.InspirationImage, title, nil, &key, metadata, req.ProjectID, req.Tags)
}

// DeleteFile removes one of the caller's files. When an inspiration id is
// given, that inspiration must reference the same file and is deleted too.
func (s *FileService) DeleteFile(ctx context.Context, userID entity.UserID, req dto.FileDeleteRequest) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	key, err := ownedKey(userID, req.FileID)
	if err != nil {
		return err
	}

	var inspiration *db.Inspiration
	if req.InspirationID != nil && strings.TrimSpace(*req.InspirationID) != "" {
		id := entity.InspirationID(strings.TrimSpace(*req.InspirationID))
		inspiration, err = s.repo.GetInspiration(ctx, userID, id)
		if err != nil {
			return translateRepoError(err)
		}
		if inspiration.FileID == nil || *inspiration.FileID != key {
			return invalidArgument("inspiration %s does not reference file %s", id, key)
		}
	}

	if err := s.store.Delete(ctx, key.String()); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	metrics.TrackContentOperation("files", "delete")

	if inspiration != nil {
		return s.inspirations.Delete(ctx, userID, inspiration.ID)
	}
	return nil
}

// ListImages returns the caller's image inspirations, newest first, each with
// a retrieval URL.
func (s *FileService) ListImages(ctx context.Context, userID entity.UserID) ([]dto.UserImage, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	inspirations, err := s.repo.ListInspirations(ctx, userID, entity.InspirationFilter{Type: entity.InspirationImage})
	if err != nil {
		return nil, err
	}

	images := make([]dto.UserImage, 0, len(inspirations))
	for _, inspiration := range inspirations {
		image := dto.UserImage{Inspiration: inspiration}
		if inspiration.FileID != nil && s.store != nil {
			url, err := s.store.URL(ctx, inspiration.FileID.String(), s.ttl)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"user_id": userID,
					"file_id": *inspiration.FileID,
				}).Warn("failed to resolve image url")
			} else {
				image.ImageURL = url
			}
		}
		images = append(images, image)
	}
	return images, nil
}
