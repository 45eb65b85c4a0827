package dto

import "time"

// TagUpsertRequest creates a tag or updates the color of an existing one.
type TagUpsertRequest struct {
	Name  string  `json:"name" binding:"required,tagname"`
	Color *string `json:"color,omitempty" binding:"omitempty,max=64"`
}

// ItemTagRequest adds a tag to a content record.
type ItemTagRequest struct {
	Name string `json:"name" binding:"required,tagname"`
}

// Tag is the DTO representation of a tag.
type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      *string   `json:"color,omitempty"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TagWithUsage adds the scan-based count to a registry entry.
type TagWithUsage struct {
	Tag
	ActualUsageCount int64 `json:"actual_usage_count"`
}

// TagListResponse is the response for listing tags.
type TagListResponse struct {
	Tags []Tag `json:"tags"`
}

// TagUsageResponse is the response for listing tags with usage counts.
type TagUsageResponse struct {
	Tags []TagWithUsage `json:"tags"`
}

// ReconcileResponse reports how many registry rows were rewritten.
type ReconcileResponse struct {
	Updated int `json:"updated"`
	Created int `json:"created"`
}
