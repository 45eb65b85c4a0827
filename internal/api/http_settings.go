package api

import (
	"context"
	"net/http"
	"posta/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) GetSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	settings, err := h.services.Account.Settings(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *HTTPHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	settings, err := h.services.Account.UpdateSettings(ctx, callerID(c), req)
	if err != nil {
		RespondError(c, err, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// GetStats 仪表盘计数
func (h *HTTPHandler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), scanTimeout)
	defer cancel()

	stats, err := h.services.Account.Stats(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
