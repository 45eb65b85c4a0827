package model

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"time"
)

// Repository 定义数据库操作接口。除用户查询外，所有读写都带 userID 过滤，
// 不存在或不属于该用户的记录统一返回 gorm.ErrRecordNotFound。
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *db.User) error
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetUserByID(ctx context.Context, id entity.UserID) (*db.User, error)
	ListUserIDs(ctx context.Context) ([]entity.UserID, error)

	// 项目
	CreateProject(ctx context.Context, project *db.Project) error
	GetProject(ctx context.Context, userID entity.UserID, id entity.ProjectID) (*db.Project, error)
	ListProjects(ctx context.Context, userID entity.UserID) ([]db.Project, error)
	UpdateProject(ctx context.Context, userID entity.UserID, id entity.ProjectID, updates entity.ProjectUpdates, now time.Time) (*db.Project, error)
	DeleteProject(ctx context.Context, userID entity.UserID, id entity.ProjectID) error

	// 脚本
	CreateScript(ctx context.Context, script *db.Script) error
	GetScript(ctx context.Context, userID entity.UserID, id entity.ScriptID) (*db.Script, error)
	ListScripts(ctx context.Context, userID entity.UserID, filter entity.DocumentFilter) ([]db.Script, error)
	UpdateScript(ctx context.Context, userID entity.UserID, id entity.ScriptID, updates entity.DocumentUpdates, now time.Time) (*db.Script, error)
	DeleteScript(ctx context.Context, userID entity.UserID, id entity.ScriptID) error

	// 笔记
	CreateNote(ctx context.Context, note *db.Note) error
	GetNote(ctx context.Context, userID entity.UserID, id entity.NoteID) (*db.Note, error)
	ListNotes(ctx context.Context, userID entity.UserID, filter entity.DocumentFilter) ([]db.Note, error)
	UpdateNote(ctx context.Context, userID entity.UserID, id entity.NoteID, updates entity.DocumentUpdates, now time.Time) (*db.Note, error)
	DeleteNote(ctx context.Context, userID entity.UserID, id entity.NoteID) error

	// 灵感
	CreateInspiration(ctx context.Context, inspiration *db.Inspiration) error
	GetInspiration(ctx context.Context, userID entity.UserID, id entity.InspirationID) (*db.Inspiration, error)
	ListInspirations(ctx context.Context, userID entity.UserID, filter entity.InspirationFilter) ([]db.Inspiration, error)
	UpdateInspiration(ctx context.Context, userID entity.UserID, id entity.InspirationID, updates entity.InspirationUpdates, now time.Time) (*db.Inspiration, error)
	DeleteInspiration(ctx context.Context, userID entity.UserID, id entity.InspirationID) error

	// 标签
	ListTags(ctx context.Context, userID entity.UserID) ([]db.Tag, error)
	GetTagByName(ctx context.Context, userID entity.UserID, name string) (*db.Tag, error)
	UpsertTag(ctx context.Context, userID entity.UserID, name string, color *string, now time.Time) (*db.Tag, error)
	DeleteTag(ctx context.Context, userID entity.UserID, id entity.TagID, now time.Time) (*db.Tag, error)
	AddTagToItem(ctx context.Context, userID entity.UserID, kind entity.ItemKind, itemID string, name string, now time.Time) (bool, error)
	RemoveTagFromItem(ctx context.Context, userID entity.UserID, kind entity.ItemKind, itemID string, name string, now time.Time) (bool, error)
	CountTagUsage(ctx context.Context, userID entity.UserID) (map[string]int64, error)
	ListContentByTag(ctx context.Context, userID entity.UserID, name string) (*db.TaggedContent, error)
	ReconcileTagUsage(ctx context.Context, userID entity.UserID, now time.Time) (updated int, created int, err error)

	// 用户偏好
	GetSettings(ctx context.Context, userID entity.UserID) (*db.UserSettings, error)
	UpsertSettings(ctx context.Context, userID entity.UserID, updates entity.SettingsUpdates, now time.Time) (*db.UserSettings, error)

	// 统计
	CountContent(ctx context.Context, userID entity.UserID) (*db.ContentCounts, error)
}
