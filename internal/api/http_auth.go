package api

import (
	"context"
	"net/http"
	"posta/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) Register(c *gin.Context) {
	var req dto.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.services.Auth.Register(ctx, req)
	if err != nil {
		RespondError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req dto.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.services.Auth.Login(ctx, req)
	if err != nil {
		RespondError(c, err, "failed to login")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) Me(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := h.services.Auth.Me(ctx, callerID(c))
	if err != nil {
		RespondError(c, err, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": summary})
}
