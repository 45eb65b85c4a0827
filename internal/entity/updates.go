package entity

import (
	"posta/internal/entity/common"
	"time"
)

// ProjectAssignment 描述对 project_id 的修改。ID 为 nil 表示移回收件箱。
type ProjectAssignment struct {
	ID *ProjectID
}

// ProjectUpdates 项目更新字段
type ProjectUpdates struct {
	Title       *string
	Description *string
	Tags        *common.StringArray
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ProjectUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		if *u.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *u.Description
		}
	}
	if u.Tags != nil {
		updates["tags"] = *u.Tags
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ProjectUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// DocumentUpdates 脚本与笔记共用的更新字段
type DocumentUpdates struct {
	Title   *string
	Content *Blocks
	Tags    *common.StringArray
	Project *ProjectAssignment
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u DocumentUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.Tags != nil {
		updates["tags"] = *u.Tags
	}
	if u.Project != nil {
		updates["project_id"] = projectColumn(u.Project.ID)
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u DocumentUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// InspirationUpdates 灵感更新字段
type InspirationUpdates struct {
	Title    *string
	URL      *string
	Metadata *InspirationMetadata
	Tags     *common.StringArray
	Project  *ProjectAssignment
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u InspirationUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.URL != nil {
		if *u.URL == "" {
			updates["url"] = nil
		} else {
			updates["url"] = *u.URL
		}
	}
	if u.Metadata != nil {
		updates["metadata"] = *u.Metadata
	}
	if u.Tags != nil {
		updates["tags"] = *u.Tags
	}
	if u.Project != nil {
		updates["project_id"] = projectColumn(u.Project.ID)
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u InspirationUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SettingsUpdates 用户偏好更新字段
type SettingsUpdates struct {
	Theme            *string
	DefaultView      *string
	CompactMode      *bool
	ShowPreviewCards *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u SettingsUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Theme != nil {
		updates["theme"] = *u.Theme
	}
	if u.DefaultView != nil {
		updates["default_view"] = *u.DefaultView
	}
	if u.CompactMode != nil {
		updates["compact_mode"] = *u.CompactMode
	}
	if u.ShowPreviewCards != nil {
		updates["show_preview_cards"] = *u.ShowPreviewCards
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u SettingsUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// TouchedAt returns the updated_at value for a write at now. The stored value
// is never moved backwards.
func TouchedAt(stored, now time.Time) time.Time {
	if now.Before(stored) {
		return stored
	}
	return now
}

func projectColumn(id *ProjectID) interface{} {
	if id == nil {
		return nil
	}
	return string(*id)
}
