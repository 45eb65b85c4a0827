package api

import (
	"context"
	"net/http"
	"posta/internal/entity"
	"posta/internal/entity/converter"
	"posta/internal/entity/dto"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListTags(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	tags, err := h.services.Tags.List(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load tags")
		return
	}

	c.JSON(http.StatusOK, dto.TagListResponse{Tags: converter.TagsToDTOs(tags)})
}

// ListTagUsage 返回标签及扫描得到的实际使用次数
func (h *HTTPHandler) ListTagUsage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	tags, err := h.services.Tags.ListWithUsage(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load tag usage")
		return
	}
	if tags == nil {
		tags = []dto.TagWithUsage{}
	}

	c.JSON(http.StatusOK, dto.TagUsageResponse{Tags: tags})
}

func (h *HTTPHandler) CreateTag(c *gin.Context) {
	var req dto.TagUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	tag, err := h.services.Tags.CreateOrUpdate(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to save tag")
		return
	}

	c.JSON(http.StatusOK, converter.TagToDTO(tag))
}

func (h *HTTPHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id", "tag")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	if err := h.services.Tags.Delete(ctx, callerID(c), entity.TagID(id)); err != nil {
		RespondError(c, err, "failed to delete tag")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ReconcileTags(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	resp, err := h.services.Tags.Reconcile(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to reconcile tags")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListContentByTag 按类型分组返回带有该标签的内容
func (h *HTTPHandler) ListContentByTag(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	content, err := h.services.Tags.ContentByTag(ctx, callerID(c), name)
	if err != nil {
		RespondError(c, err, "failed to load tagged content")
		return
	}

	c.JSON(http.StatusOK, content)
}

func (h *HTTPHandler) AddItemTag(c *gin.Context) {
	kind, itemID, ok := itemTarget(c)
	if !ok {
		return
	}

	var req dto.ItemTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Tags.AddToItem(ctx, callerID(c), kind, itemID, req.Name); err != nil {
		RespondError(c, err, "failed to add tag")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) RemoveItemTag(c *gin.Context) {
	kind, itemID, ok := itemTarget(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Tags.RemoveFromItem(ctx, callerID(c), kind, itemID, c.Param("name")); err != nil {
		RespondError(c, err, "failed to remove tag")
		return
	}

	c.Status(http.StatusNoContent)
}

func itemTarget(c *gin.Context) (entity.ItemKind, string, bool) {
	kind, err := entity.ParseItemKind(c.Param("type"))
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, err.Error())
		return "", "", false
	}
	id, ok := pathID(c, "id", kind.Singular())
	if !ok {
		return "", "", false
	}
	return kind, id, true
}
