package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InspirationType 灵感素材的类型。
type InspirationType string

const (
	InspirationLink  InspirationType = "link"
	InspirationImage InspirationType = "image"
	InspirationFile  InspirationType = "file"
)

// Valid reports whether t is one of the known inspiration types.
func (t InspirationType) Valid() bool {
	switch t {
	case InspirationLink, InspirationImage, InspirationFile:
		return true
	default:
		return false
	}
}

// InspirationMetadata 描述链接或上传文件的附加信息。
type InspirationMetadata struct {
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Duration    string `json:"duration,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`

	// Filled by the link resolver.
	LinkType string `json:"type,omitempty"`
	Platform string `json:"platform,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
}

// Value 实现 driver.Valuer 接口。
func (m InspirationMetadata) Value() (driver.Value, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (m *InspirationMetadata) Scan(value interface{}) error {
	*m = InspirationMetadata{}
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, m)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for InspirationMetadata: %T", value)
	}
}
