package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"posta/internal/config"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket     *oss.Bucket
	prefix     string
	publicBase string
}

func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if bucketName == "" {
		return nil, errors.New("storage: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &ossStorage{
		bucket:     bucket,
		prefix:     trimPrefix(cfg.StorageOSSPrefix),
		publicBase: remotePublicBase(cfg.StoragePublicBaseURL),
	}, nil
}

func (s *ossStorage) objectKey(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix != "" {
		return joinPrefix(s.prefix, cleaned), nil
	}
	return cleaned, nil
}

func (s *ossStorage) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}

	options := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentTypeOrDefault(contentType, objectKey)),
	}
	if err := s.bucket.PutObject(objectKey, body, options...); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *ossStorage) PresignUpload(_ context.Context, key, contentType string, ttl time.Duration) (UploadTarget, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return UploadTarget{}, err
	}
	ct := contentTypeOrDefault(contentType, objectKey)

	signed, err := s.bucket.SignURL(objectKey, oss.HTTPPut, ttlSeconds(ttl), oss.ContentType(ct))
	if err != nil {
		return UploadTarget{}, fmt.Errorf("sign put url: %w", err)
	}
	return UploadTarget{
		URL:       signed,
		Method:    string(oss.HTTPPut),
		Headers:   map[string]string{"Content-Type": ct},
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

func (s *ossStorage) URL(_ context.Context, key string, ttl time.Duration) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}
	if s.publicBase != "" {
		return s.publicBase + "/" + objectKey, nil
	}
	signed, err := s.bucket.SignURL(objectKey, oss.HTTPGet, ttlSeconds(ttl))
	if err != nil {
		return "", fmt.Errorf("sign get url: %w", err)
	}
	return signed, nil
}

func (s *ossStorage) Exists(ctx context.Context, key string) (bool, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	exists, err := s.bucket.IsObjectExist(objectKey, oss.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("check object: %w", err)
	}
	return exists, nil
}

func (s *ossStorage) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.DeleteObject(objectKey, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := int64(ttl / time.Second)
	if seconds <= 0 {
		return 60
	}
	return seconds
}

var _ Storage = (*ossStorage)(nil)
