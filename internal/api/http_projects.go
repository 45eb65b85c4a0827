package api

import (
	"context"
	"net/http"
	"posta/internal/entity"
	"posta/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListProjects(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	projects, err := h.services.Projects.List(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *HTTPHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	project, err := h.services.Projects.Get(ctx, callerID(c), entity.ProjectID(id))
	if err != nil {
		RespondError(c, err, "failed to load project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *HTTPHandler) CreateProject(c *gin.Context) {
	var req dto.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	project, err := h.services.Projects.Create(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *HTTPHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	var req dto.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	project, err := h.services.Projects.Update(ctx, callerID(c), entity.ProjectID(id), req)
	if err != nil {
		RespondError(c, err, "failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *HTTPHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.services.Projects.Delete(ctx, callerID(c), entity.ProjectID(id)); err != nil {
		RespondError(c, err, "failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ListProjectScripts(c *gin.Context) {
	id, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	scripts, err := h.services.Scripts.ListByProject(ctx, callerID(c), entity.ProjectID(id))
	if err != nil {
		RespondError(c, err, "failed to load scripts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"scripts": scripts})
}

func (h *HTTPHandler) ListProjectNotes(c *gin.Context) {
	id, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	notes, err := h.services.Notes.ListByProject(ctx, callerID(c), entity.ProjectID(id))
	if err != nil {
		RespondError(c, err, "failed to load notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *HTTPHandler) ListProjectInspirations(c *gin.Context) {
	id, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	inspirations, err := h.services.Inspirations.ListByProject(ctx, callerID(c), entity.ProjectID(id))
	if err != nil {
		RespondError(c, err, "failed to load inspirations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inspirations": inspirations})
}
