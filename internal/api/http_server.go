package api

import (
	"posta/internal/config"
	"posta/internal/service"
	"posta/internal/storage"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	requestTimeout = 5 * time.Second
	scanTimeout    = 10 * time.Second
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg      config.Config
	services *service.Services
	storage  storage.Storage
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, services *service.Services, store storage.Storage) (*HTTPHandler, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	return &HTTPHandler{
		cfg:      cfg,
		services: services,
		storage:  store,
	}, nil
}

// RegisterRoutes 注册 /api 下的全部路由
func (h *HTTPHandler) RegisterRoutes(router gin.IRouter) {
	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", h.AuthMiddleware(), h.Me)
	}

	protected := apiGroup.Group("")
	protected.Use(h.AuthMiddleware())

	projects := protected.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProject)
		projects.PATCH("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.GET("/:id/scripts", h.ListProjectScripts)
		projects.GET("/:id/notes", h.ListProjectNotes)
		projects.GET("/:id/inspirations", h.ListProjectInspirations)
	}

	scripts := protected.Group("/scripts")
	{
		scripts.GET("", h.ListScripts)
		scripts.POST("", h.CreateScript)
		scripts.GET("/inbox", h.ListInboxScripts)
		scripts.GET("/:id", h.GetScript)
		scripts.PATCH("/:id", h.UpdateScript)
		scripts.DELETE("/:id", h.DeleteScript)
	}

	notes := protected.Group("/notes")
	{
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
		notes.GET("/:id", h.GetNote)
		notes.PATCH("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}

	inspirations := protected.Group("/inspirations")
	{
		inspirations.GET("", h.ListInspirations)
		inspirations.POST("", h.CreateInspiration)
		inspirations.GET("/:id", h.GetInspiration)
		inspirations.PATCH("/:id", h.UpdateInspiration)
		inspirations.DELETE("/:id", h.DeleteInspiration)
	}
	protected.GET("/link-metadata", h.ResolveLinkMetadata)

	tags := protected.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.POST("", h.CreateTag)
		tags.GET("/usage", h.ListTagUsage)
		tags.POST("/reconcile", h.ReconcileTags)
		tags.GET("/content", h.ListContentByTag)
		tags.DELETE("/:id", h.DeleteTag)
	}

	items := protected.Group("/items/:type/:id/tags")
	{
		items.POST("", h.AddItemTag)
		items.DELETE("/:name", h.RemoveItemTag)
	}

	files := protected.Group("/files")
	{
		files.POST("/upload-url", h.CreateUploadURL)
		files.PUT("/upload/*key", h.UploadFile)
		files.GET("/url", h.GetFileURL)
		files.GET("/images", h.ListImages)
		files.POST("/images", h.CreateImageInspiration)
		files.DELETE("", h.DeleteFile)
	}

	protected.GET("/settings", h.GetSettings)
	protected.PATCH("/settings", h.UpdateSettings)
	protected.GET("/stats", h.GetStats)
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// LocalFiles 返回本地存储静态文件的挂载路径与目录；远程公共地址或非本地存储时 ok 为 false。
func (h *HTTPHandler) LocalFiles() (route string, dir string, ok bool) {
	provider, isLocal := h.storage.(storage.LocalBaseDirProvider)
	if !isLocal {
		return "", "", false
	}
	base := normalisePublicBase(h.cfg.StoragePublicBaseURL)
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return "", "", false
	}
	return base, provider.LocalBaseDir(), true
}
