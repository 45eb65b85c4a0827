package api

import (
	"context"
	"net/http"
	"posta/internal/entity"
	"posta/internal/entity/dto"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListInspirations(c *gin.Context) {
	projectID, ok := queryProjectID(c)
	if !ok {
		return
	}

	filter := entity.InspirationFilter{ProjectID: projectID}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		filter.Type = entity.InspirationType(raw)
		if !filter.Type.Valid() {
			BadRequest(c, ErrCodeInvalidRequest, "unknown inspiration type")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	inspirations, err := h.services.Inspirations.List(ctx, callerID(c), filter)
	if err != nil {
		RespondError(c, err, "failed to load inspirations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inspirations": inspirations})
}

func (h *HTTPHandler) GetInspiration(c *gin.Context) {
	id, ok := pathID(c, "id", "inspiration")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	inspiration, err := h.services.Inspirations.Get(ctx, callerID(c), entity.InspirationID(id))
	if err != nil {
		RespondError(c, err, "failed to load inspiration")
		return
	}

	c.JSON(http.StatusOK, inspiration)
}

func (h *HTTPHandler) CreateInspiration(c *gin.Context) {
	var req dto.InspirationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	inspiration, err := h.services.Inspirations.Create(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to create inspiration")
		return
	}

	c.JSON(http.StatusCreated, inspiration)
}

func (h *HTTPHandler) UpdateInspiration(c *gin.Context) {
	id, ok := pathID(c, "id", "inspiration")
	if !ok {
		return
	}

	var req dto.InspirationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	inspiration, err := h.services.Inspirations.Update(ctx, callerID(c), entity.InspirationID(id), req)
	if err != nil {
		RespondError(c, err, "failed to update inspiration")
		return
	}

	c.JSON(http.StatusOK, inspiration)
}

func (h *HTTPHandler) DeleteInspiration(c *gin.Context) {
	id, ok := pathID(c, "id", "inspiration")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Inspirations.Delete(ctx, callerID(c), entity.InspirationID(id)); err != nil {
		RespondError(c, err, "failed to delete inspiration")
		return
	}

	c.Status(http.StatusNoContent)
}

// ResolveLinkMetadata 预览链接对应的平台元数据，不做网络请求
func (h *HTTPHandler) ResolveLinkMetadata(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("url"))
	if raw == "" {
		MissingField(c, "url")
		return
	}

	metadata, err := h.services.Inspirations.ResolveLink(callerID(c), raw)
	if err != nil {
		RespondError(c, err, "failed to resolve link")
		return
	}

	c.JSON(http.StatusOK, metadata)
}
