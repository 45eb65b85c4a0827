package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadRoot is the top-level directory of every user upload key.
const UploadRoot = "uploads"

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func normalizeExtension(ext string) string {
	trimmed := strings.TrimSpace(ext)
	trimmed = strings.TrimPrefix(trimmed, ".")
	if trimmed == "" {
		return "bin"
	}
	if cleaned := sanitizePathSegment(trimmed); cleaned != "" {
		return cleaned
	}
	return "bin"
}

// UserPrefix returns the key prefix owned by one user, with a trailing slash.
func UserPrefix(userID string) string {
	return UploadRoot + "/" + sanitizePathSegment(userID) + "/"
}

// BuildUploadKey allocates a new object key for a user upload:
// uploads/<user>/<yyyy>/<mm>/<dd>/<uuid>.<ext>.
func BuildUploadKey(userID, contentType string, now time.Time) string {
	now = now.UTC()
	datedir := fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day())
	filename := fmt.Sprintf("%s.%s", uuid.NewString(), ExtensionFromMime(contentType))
	return path.Join(UploadRoot, sanitizePathSegment(userID), datedir, filename)
}

// KeyOwnedBy reports whether key lies under the upload prefix of userID.
func KeyOwnedBy(key, userID string) bool {
	cleaned, err := CleanKey(key)
	if err != nil {
		return false
	}
	owner := sanitizePathSegment(userID)
	if owner == "" {
		return false
	}
	return strings.HasPrefix(cleaned, UserPrefix(userID))
}

// CleanKey normalises a logical key and rejects traversal.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.HasPrefix(trimmed, "/") {
		return "", ErrInvalidKey
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." || segment == "." {
			return "", ErrInvalidKey
		}
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// ExtensionFromMime maps a content type to a file extension without the
// leading dot. Unknown types map to "bin".
func ExtensionFromMime(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return "bin"
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/heic":
		return "heic"
	case "image/heif":
		return "heif"
	case "application/pdf":
		return "pdf"
	case "video/mp4":
		return "mp4"
	case "text/plain":
		return "txt"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return normalizeExtension(exts[0])
	}
	return "bin"
}

func detectContentType(key string) string {
	ext := path.Ext(key)
	if ext == "" {
		return "application/octet-stream"
	}
	typeName := mime.TypeByExtension(ext)
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// normalisePublicBase 规范化公共 URL 基础路径。
func normalisePublicBase(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	if trimmed == "" {
		return ""
	}
	if isAbsoluteURL(trimmed) {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// remotePublicBase returns the configured public base only when it is an
// absolute URL. Relative bases belong to the local backend.
func remotePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if !isAbsoluteURL(trimmed) {
		return ""
	}
	return strings.TrimRight(trimmed, "/")
}

func contentTypeOrDefault(contentType, key string) string {
	if ct := strings.TrimSpace(contentType); ct != "" {
		return ct
	}
	return detectContentType(key)
}
