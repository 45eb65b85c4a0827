package dto

import "posta/internal/entity"

// ProjectCreateRequest is the payload for creating a project.
type ProjectCreateRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
}

// ProjectUpdateRequest carries the fields to change. Absent fields are kept.
type ProjectUpdateRequest struct {
	Title       *string   `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
}

// DocumentCreateRequest creates a script or a note.
type DocumentCreateRequest struct {
	Title     string         `json:"title" binding:"required,max=255"`
	ProjectID *string        `json:"project_id,omitempty"`
	Content   []entity.Block `json:"content,omitempty"`
	Tags      []string       `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
}

// DocumentUpdateRequest updates a script or a note. An empty project_id moves
// the document to the inbox.
type DocumentUpdateRequest struct {
	Title     *string         `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	ProjectID *string         `json:"project_id,omitempty"`
	Content   *[]entity.Block `json:"content,omitempty"`
	Tags      *[]string       `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
}

// InspirationCreateRequest is the payload for creating an inspiration.
type InspirationCreateRequest struct {
	Type      entity.InspirationType      `json:"type" binding:"required,oneof=link image file"`
	Title     string                      `json:"title" binding:"required,max=255"`
	URL       *string                     `json:"url,omitempty"`
	FileID    *string                     `json:"file_id,omitempty"`
	ProjectID *string                     `json:"project_id,omitempty"`
	Tags      []string                    `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
	Metadata  *entity.InspirationMetadata `json:"metadata,omitempty"`
}

// InspirationUpdateRequest updates an inspiration. Changing url re-resolves
// link metadata.
type InspirationUpdateRequest struct {
	Title     *string   `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	URL       *string   `json:"url,omitempty"`
	ProjectID *string   `json:"project_id,omitempty"`
	Tags      *[]string `json:"tags,omitempty" binding:"omitempty,dive,tagname"`
}
