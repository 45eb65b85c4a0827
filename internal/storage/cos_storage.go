package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"posta/internal/config"
	"strings"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type cosStorage struct {
	client     *cos.Client
	prefix     string
	secretID   string
	secretKey  string
	publicBase string
}

func NewCOSStorage(cfg config.Config) (Storage, error) {
	baseURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if baseURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}

	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	transport := &cos.AuthorizationTransport{
		SecretID:  secretID,
		SecretKey: secretKey,
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsedURL}, &http.Client{Transport: transport})

	return &cosStorage{
		client:     client,
		prefix:     trimPrefix(cfg.StorageCOSPrefix),
		secretID:   secretID,
		secretKey:  secretKey,
		publicBase: remotePublicBase(cfg.StoragePublicBaseURL),
	}, nil
}

func (s *cosStorage) objectKey(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix != "" {
		return joinPrefix(s.prefix, cleaned), nil
	}
	return cleaned, nil
}

func (s *cosStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}

	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: contentTypeOrDefault(contentType, objectKey),
		},
	}
	if size > 0 {
		options.ObjectPutHeaderOptions.ContentLength = size
	}

	resp, err := s.client.Object.Put(ctx, objectKey, body, options)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *cosStorage) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (UploadTarget, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return UploadTarget{}, err
	}
	signed, err := s.client.Object.GetPresignedURL(ctx, http.MethodPut, objectKey, s.secretID, s.secretKey, ttl, nil)
	if err != nil {
		return UploadTarget{}, fmt.Errorf("presign put object: %w", err)
	}
	return UploadTarget{
		URL:       signed.String(),
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": contentTypeOrDefault(contentType, objectKey)},
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

func (s *cosStorage) URL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}
	if s.publicBase != "" {
		return s.publicBase + "/" + objectKey, nil
	}
	signed, err := s.client.Object.GetPresignedURL(ctx, http.MethodGet, objectKey, s.secretID, s.secretKey, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return signed.String(), nil
}

func (s *cosStorage) Exists(ctx context.Context, key string) (bool, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Object.Head(ctx, objectKey, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err == nil {
		return true, nil
	}
	if cos.IsNotFoundError(err) {
		return false, nil
	}
	return false, fmt.Errorf("head object: %w", err)
}

func (s *cosStorage) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	resp, err := s.client.Object.Delete(ctx, objectKey)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil && !cos.IsNotFoundError(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

var _ Storage = (*cosStorage)(nil)
