package api

import (
	"context"
	"net/http"
	"posta/internal/entity"
	"posta/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

// 脚本

func (h *HTTPHandler) ListScripts(c *gin.Context) {
	projectID, ok := queryProjectID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	scripts, err := h.services.Scripts.List(ctx, callerID(c), entity.DocumentFilter{ProjectID: projectID})
	if err != nil {
		RespondError(c, err, "failed to load scripts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"scripts": scripts})
}

// ListInboxScripts 返回未归属任何项目的脚本
func (h *HTTPHandler) ListInboxScripts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	scripts, err := h.services.Scripts.ListInbox(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load inbox")
		return
	}

	c.JSON(http.StatusOK, gin.H{"scripts": scripts})
}

func (h *HTTPHandler) GetScript(c *gin.Context) {
	id, ok := pathID(c, "id", "script")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	script, err := h.services.Scripts.Get(ctx, callerID(c), entity.ScriptID(id))
	if err != nil {
		RespondError(c, err, "failed to load script")
		return
	}

	c.JSON(http.StatusOK, script)
}

func (h *HTTPHandler) CreateScript(c *gin.Context) {
	var req dto.DocumentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	script, err := h.services.Scripts.Create(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to create script")
		return
	}

	c.JSON(http.StatusCreated, script)
}

func (h *HTTPHandler) UpdateScript(c *gin.Context) {
	id, ok := pathID(c, "id", "script")
	if !ok {
		return
	}

	var req dto.DocumentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	script, err := h.services.Scripts.Update(ctx, callerID(c), entity.ScriptID(id), req)
	if err != nil {
		RespondError(c, err, "failed to update script")
		return
	}

	c.JSON(http.StatusOK, script)
}

func (h *HTTPHandler) DeleteScript(c *gin.Context) {
	id, ok := pathID(c, "id", "script")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Scripts.Delete(ctx, callerID(c), entity.ScriptID(id)); err != nil {
		RespondError(c, err, "failed to delete script")
		return
	}

	c.Status(http.StatusNoContent)
}

// 笔记

func (h *HTTPHandler) ListNotes(c *gin.Context) {
	projectID, ok := queryProjectID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	notes, err := h.services.Notes.List(ctx, callerID(c), entity.DocumentFilter{ProjectID: projectID})
	if err != nil {
		RespondError(c, err, "failed to load notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *HTTPHandler) GetNote(c *gin.Context) {
	id, ok := pathID(c, "id", "note")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	note, err := h.services.Notes.Get(ctx, callerID(c), entity.NoteID(id))
	if err != nil {
		RespondError(c, err, "failed to load note")
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *HTTPHandler) CreateNote(c *gin.Context) {
	var req dto.DocumentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	note, err := h.services.Notes.Create(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to create note")
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *HTTPHandler) UpdateNote(c *gin.Context) {
	id, ok := pathID(c, "id", "note")
	if !ok {
		return
	}

	var req dto.DocumentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	note, err := h.services.Notes.Update(ctx, callerID(c), entity.NoteID(id), req)
	if err != nil {
		RespondError(c, err, "failed to update note")
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *HTTPHandler) DeleteNote(c *gin.Context) {
	id, ok := pathID(c, "id", "note")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Notes.Delete(ctx, callerID(c), entity.NoteID(id)); err != nil {
		RespondError(c, err, "failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}
