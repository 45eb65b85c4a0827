package api

import (
	"context"
	"errors"
	"net/http"
	"posta/internal/entity/dto"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 32 << 20

// CreateUploadURL 为当前用户分配文件 key 并返回上传地址
func (h *HTTPHandler) CreateUploadURL(c *gin.Context) {
	var req dto.UploadURLRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.services.Files.GenerateUploadURL(ctx, callerID(c), req.ContentType)
	if err != nil {
		RespondError(c, err, "failed to create upload url")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadFile 接收本地存储的直传请求，请求体即文件内容
func (h *HTTPHandler) UploadFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		MissingField(c, "key")
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	defer body.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	fileID, err := h.services.Files.Upload(ctx, callerID(c), key, body, c.Request.ContentLength, c.ContentType())
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodeInvalidRequest, "file is too large")
			return
		}
		RespondError(c, err, "failed to store file")
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_id": fileID})
}

func (h *HTTPHandler) GetFileURL(c *gin.Context) {
	fileID := strings.TrimSpace(c.Query("file_id"))
	if fileID == "" {
		MissingField(c, "file_id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	url, err := h.services.Files.FileURL(ctx, callerID(c), fileID)
	if err != nil {
		RespondError(c, err, "failed to resolve file url")
		return
	}

	c.JSON(http.StatusOK, dto.FileURLResponse{URL: url})
}

func (h *HTTPHandler) ListImages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	images, err := h.services.Files.ListImages(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *HTTPHandler) CreateImageInspiration(c *gin.Context) {
	var req dto.ImageInspirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	inspiration, err := h.services.Files.CreateImageInspiration(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to save image")
		return
	}

	c.JSON(http.StatusCreated, inspiration)
}

func (h *HTTPHandler) DeleteFile(c *gin.Context) {
	var req dto.FileDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Files.DeleteFile(ctx, callerID(c), req); err != nil {
		RespondError(c, err, "failed to delete file")
		return
	}

	c.Status(http.StatusNoContent)
}
