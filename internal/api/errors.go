package api

import (
	"errors"
	"net/http"
	"posta/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeConflict       = "ERR_CONFLICT"
	ErrCodeNotSupported   = "ERR_NOT_SUPPORTED"
	ErrCodeInternalError  = "ERR_INTERNAL_ERROR"

	// 认证错误码
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"

	// 业务逻辑错误码
	ErrCodeMissingField = "ERR_MISSING_FIELD"
	ErrCodeInvalidID    = "ERR_INVALID_ID"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// Conflict 409 资源冲突
func Conflict(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, ErrCodeConflict, message)
}

// NotSupported 501 功能不可用
func NotSupported(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotImplemented, ErrCodeNotSupported, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context, err error) {
	if err == nil {
		ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
		return
	}
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload", err.Error())
}

// RespondError 将服务层错误映射为 HTTP 响应。未识别的错误记录日志并返回 500，
// fallback 作为对外消息。
func RespondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		Unauthorized(c, publicMessage(err, "authentication required"))
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, publicMessage(err, "forbidden"))
	case errors.Is(err, service.ErrNotFoundOrAccessDenied):
		NotFound(c, ErrCodeNotFound, "not found or access denied")
	case errors.Is(err, service.ErrInvalidArgument):
		BadRequest(c, ErrCodeInvalidRequest, publicMessage(err, "invalid request"))
	case errors.Is(err, service.ErrConflict):
		Conflict(c, publicMessage(err, "conflict"))
	case errors.Is(err, service.ErrUnsupported):
		NotSupported(c, publicMessage(err, "not supported"))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(fallback)
		InternalError(c, fallback)
	}
}

// publicMessage keeps the detail a service attached to a domain error, e.g.
// "invalid argument: title is required" becomes "title is required".
func publicMessage(err error, fallback string) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 && idx+2 < len(msg) {
		return msg[idx+2:]
	}
	return fallback
}
