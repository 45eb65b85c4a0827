package db

import (
	"posta/internal/entity"
	"time"
)

// User 表示持久化的用户账户。
type User struct {
	ID           entity.UserID `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Email        string        `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string        `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName 指定表名。
func (User) TableName() string {
	return "users"
}

// UserSettings 保存用户的界面偏好。
type UserSettings struct {
	UserID           entity.UserID `gorm:"primaryKey;size:36" json:"user_id"`
	Theme            string        `gorm:"size:16;not null" json:"theme"`
	DefaultView      string        `gorm:"size:16;not null" json:"default_view"`
	CompactMode      bool          `gorm:"not null" json:"compact_mode"`
	ShowPreviewCards bool          `gorm:"not null" json:"show_preview_cards"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// TableName 指定表名。
func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings is what a user sees before saving any preference.
func DefaultUserSettings(userID entity.UserID) UserSettings {
	return UserSettings{
		UserID:           userID,
		Theme:            "system",
		DefaultView:      "projects",
		CompactMode:      false,
		ShowPreviewCards: true,
	}
}
