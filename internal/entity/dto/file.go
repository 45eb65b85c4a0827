package dto

import (
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"
)

// UploadURLRequest asks for a new upload target.
type UploadURLRequest struct {
	ContentType string `json:"content_type" binding:"omitempty,max=128"`
}

// UploadURLResponse describes where and how the client should upload.
type UploadURLResponse struct {
	FileID    string            `json:"file_id"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// FileURLResponse holds a retrieval URL.
type FileURLResponse struct {
	URL string `json:"url"`
}

// ImageInspirationRequest records an uploaded image as an inspiration.
type ImageInspirationRequest struct {
	FileID    string                      `json:"file_id" binding:"required"`
	Title     string                      `json:"title" binding:"required,max=255"`
	ProjectID *string                     `json:"project_id,omitempty"`
	Tags      []string                    `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
	Metadata  *entity.InspirationMetadata `json:"metadata,omitempty"`
}

// FileDeleteRequest deletes a blob and optionally the inspiration using it.
type FileDeleteRequest struct {
	FileID        string  `json:"file_id" binding:"required"`
	InspirationID *string `json:"inspiration_id,omitempty"`
}

// UserImage is an image inspiration with its resolved URL.
type UserImage struct {
	db.Inspiration
	ImageURL string `json:"image_url"`
}
