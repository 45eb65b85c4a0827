package main

import (
	"context"
	"fmt"
	"net/http"
	"posta/internal/api"
	"posta/internal/auth"
	"posta/internal/cache"
	"posta/internal/config"
	"posta/internal/metrics"
	"posta/internal/model"
	"posta/internal/service"
	"posta/internal/storage"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(cfg.ParseLogLevel())

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	usageCache, err := cache.New(cfg.RedisURL, cfg.UsageCacheTTL)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise usage cache")
		return
	}

	if cfg.ReconcileTagsOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if err := model.ReconcileAllTagUsage(ctx, repo, usageCache); err != nil {
			logrus.WithError(err).Warn("failed to reconcile tag usage")
		}
		cancel()
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise token manager")
		return
	}

	services, err := service.New(service.Options{
		Repo:              repo,
		Storage:           store,
		UsageCache:        usageCache,
		Tokens:            tokens,
		PresignTTL:        cfg.StoragePresignTTL,
		AllowRegistration: cfg.AllowRegistration,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to initialise services")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, services, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(metrics.Middleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	httpHandler.RegisterRoutes(r)

	if route, dir, ok := httpHandler.LocalFiles(); ok {
		r.Static(route, dir)
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
