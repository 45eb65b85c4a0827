package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage persists files to the local filesystem. Uploads go through the
// API endpoint at uploadBase and files are served from publicBase.
type LocalStorage struct {
	baseDir    string
	publicBase string
	uploadBase string
}

// NewLocalStorage creates a LocalStorage instance. The directory is created if
// it does not exist.
func NewLocalStorage(baseDir, publicBase, uploadBase string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{
		baseDir:    baseDir,
		publicBase: normalisePublicBase(publicBase, "/files"),
		uploadBase: normalisePublicBase(uploadBase, "/api/files/upload"),
	}, nil
}

// LocalBaseDir returns the root directory used for storing files.
func (s *LocalStorage) LocalBaseDir() string {
	return s.baseDir
}

func (s *LocalStorage) absPath(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(cleaned)), nil
}

// Put writes the body to disk under key.
func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	absPath, err := s.absPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	file, err := os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	written, copyErr := io.Copy(file, body)
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(absPath)
		return fmt.Errorf("write file: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close file: %w", closeErr)
	}
	if written == 0 {
		_ = os.Remove(absPath)
		return errors.New("empty payload")
	}
	if size > 0 && written != size {
		_ = os.Remove(absPath)
		return fmt.Errorf("short write: expected %d bytes, got %d", size, written)
	}
	return nil
}

// PresignUpload points the client at the authenticated API upload endpoint.
func (s *LocalStorage) PresignUpload(_ context.Context, key, contentType string, ttl time.Duration) (UploadTarget, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return UploadTarget{}, err
	}
	return UploadTarget{
		URL:       s.uploadBase + "/" + cleaned,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentTypeOrDefault(contentType, cleaned)},
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// URL returns the public path of a stored file.
func (s *LocalStorage) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return s.publicBase + "/" + cleaned, nil
}

// Exists reports whether the file is on disk.
func (s *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	absPath, err := s.absPath(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the file. Missing files are not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	absPath, err := s.absPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

var _ Storage = (*LocalStorage)(nil)
var _ LocalBaseDirProvider = (*LocalStorage)(nil)
