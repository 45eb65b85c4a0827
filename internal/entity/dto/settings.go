package dto

// SettingsUpdateRequest carries the preferences to change.
type SettingsUpdateRequest struct {
	Theme            *string `json:"theme,omitempty" binding:"omitempty,oneof=light dark system"`
	DefaultView      *string `json:"default_view,omitempty" binding:"omitempty,oneof=projects inbox recent"`
	CompactMode      *bool   `json:"compact_mode,omitempty"`
	ShowPreviewCards *bool   `json:"show_preview_cards,omitempty"`
}
