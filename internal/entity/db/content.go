package db

import (
	"posta/internal/entity"
	"posta/internal/entity/common"
	"time"
)

// Project 是脚本、笔记和灵感的容器。
type Project struct {
	ID          entity.ProjectID   `gorm:"primaryKey;size:36" json:"id"`
	UserID      entity.UserID      `gorm:"size:36;index:idx_project_user_created,priority:1;not null" json:"user_id"`
	Title       string             `gorm:"type:varchar(255);not null" json:"title"`
	Description *string            `gorm:"type:text" json:"description,omitempty"`
	Tags        common.StringArray `gorm:"type:text;not null" json:"tags"`
	CreatedAt   time.Time          `gorm:"index:idx_project_user_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TableName 指定表名。
func (Project) TableName() string {
	return "projects"
}

// Script 是由富文本块组成的脚本，可不属于任何项目（收件箱）。
type Script struct {
	ID        entity.ScriptID    `gorm:"primaryKey;size:36" json:"id"`
	UserID    entity.UserID      `gorm:"size:36;index:idx_script_user_created,priority:1;not null" json:"user_id"`
	ProjectID *entity.ProjectID  `gorm:"size:36;index" json:"project_id,omitempty"`
	Title     string             `gorm:"type:varchar(255);not null" json:"title"`
	Content   entity.Blocks      `gorm:"type:text;not null" json:"content"`
	Tags      common.StringArray `gorm:"type:text;not null" json:"tags"`
	CreatedAt time.Time          `gorm:"index:idx_script_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TableName 指定表名。
func (Script) TableName() string {
	return "scripts"
}

// Note 与 Script 结构相同，但允许更多块类型。
type Note struct {
	ID        entity.NoteID      `gorm:"primaryKey;size:36" json:"id"`
	UserID    entity.UserID      `gorm:"size:36;index:idx_note_user_created,priority:1;not null" json:"user_id"`
	ProjectID *entity.ProjectID  `gorm:"size:36;index" json:"project_id,omitempty"`
	Title     string             `gorm:"type:varchar(255);not null" json:"title"`
	Content   entity.Blocks      `gorm:"type:text;not null" json:"content"`
	Tags      common.StringArray `gorm:"type:text;not null" json:"tags"`
	CreatedAt time.Time          `gorm:"index:idx_note_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TableName 指定表名。
func (Note) TableName() string {
	return "notes"
}

// Inspiration 是链接、图片或文件形式的灵感素材。
type Inspiration struct {
	ID        entity.InspirationID       `gorm:"primaryKey;size:36" json:"id"`
	UserID    entity.UserID              `gorm:"size:36;index:idx_inspiration_user_created,priority:1;index:idx_inspiration_user_type,priority:1;not null" json:"user_id"`
	ProjectID *entity.ProjectID          `gorm:"size:36;index" json:"project_id,omitempty"`
	Type      entity.InspirationType     `gorm:"size:16;index:idx_inspiration_user_type,priority:2;not null" json:"type"`
	Title     string                     `gorm:"type:varchar(255);not null" json:"title"`
	URL       *string                    `gorm:"type:text" json:"url,omitempty"`
	FileID    *entity.FileID             `gorm:"size:255" json:"file_id,omitempty"`
	Metadata  entity.InspirationMetadata `gorm:"type:text" json:"metadata"`
	Tags      common.StringArray         `gorm:"type:text;not null" json:"tags"`
	CreatedAt time.Time                  `gorm:"index:idx_inspiration_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// TableName 指定表名。
func (Inspiration) TableName() string {
	return "inspirations"
}

// Tag 表示用户定义的标签。名称在同一用户下唯一且为小写。
type Tag struct {
	ID         entity.TagID  `gorm:"primaryKey;size:36" json:"id"`
	UserID     entity.UserID `gorm:"size:36;uniqueIndex:idx_tag_user_name,priority:1;not null" json:"user_id"`
	Name       string        `gorm:"size:64;uniqueIndex:idx_tag_user_name,priority:2;not null" json:"name"`
	Color      *string       `gorm:"size:64" json:"color,omitempty"`
	UsageCount int64         `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt  time.Time     `json:"created_at"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// AllModels 返回需要自动迁移的全部模型。
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&UserSettings{},
		&Project{},
		&Script{},
		&Note{},
		&Inspiration{},
		&Tag{},
	}
}

// TaggedContent groups the records of one user that carry a tag.
type TaggedContent struct {
	Projects     []Project     `json:"projects"`
	Scripts      []Script      `json:"scripts"`
	Notes        []Note        `json:"notes"`
	Inspirations []Inspiration `json:"inspirations"`
}

// ContentCounts 用户各类内容的数量。
type ContentCounts struct {
	Projects     int64 `json:"projects"`
	Scripts      int64 `json:"scripts"`
	InboxScripts int64 `json:"inbox_scripts"`
	Notes        int64 `json:"notes"`
	Inspirations int64 `json:"inspirations"`
	Tags         int64 `json:"tags"`
}
