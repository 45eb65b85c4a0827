package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"posta/internal/config"
	"strings"
	"time"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// ErrInvalidKey is returned for keys that are empty, absolute or escape the
// storage root.
var ErrInvalidKey = errors.New("storage: invalid object key")

// UploadTarget 描述客户端直接上传文件所需的信息。
type UploadTarget struct {
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// Storage 是对象存储的抽象。key 为不含后端前缀的逻辑路径（即 FileID）。
type Storage interface {
	// Put 写入对象内容。
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// PresignUpload 返回客户端上传该 key 的目标地址。
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (UploadTarget, error)
	// URL 返回对象的访问地址；私有桶返回有效期为 ttl 的签名地址。
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Exists 检查对象是否存在。
	Exists(ctx context.Context, key string) (bool, error)
	// Delete 删除对象，对象不存在时不报错。
	Delete(ctx context.Context, key string) error
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir, cfg.StoragePublicBaseURL, cfg.StorageUploadBaseURL)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
