package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/server/http/dto"
	"github.com/punterhub/wallet/internal/server/http/middleware"
)

// SessionHandler opens and closes wallet sessions.
type SessionHandler struct {
	facade SessionFacade
}

// NewSessionHandler creates SessionHandler instance.
func NewSessionHandler(facade SessionFacade) *SessionHandler {
	return &SessionHandler{facade: facade}
}

// Open handles POST /api/session.
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, sess, user, err := h.facade.OpenSession(c.Request.Context(), req.Token, model.Role(req.Role))
	if err != nil {
		respondError(c, err, domainErrors.MsgSignIn)
		return
	}

	middleware.SetSessionCookie(c, token, sess.ExpiresAt)
	c.JSON(http.StatusOK, dto.SessionResponse{
		Token:     token,
		Role:      string(sess.Role),
		ExpiresAt: sess.ExpiresAt,
		User:      toUserResponse(user),
	})
}

// Close handles DELETE /api/session.
func (h *SessionHandler) Close(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	if err := h.facade.CloseSession(c.Request.Context(), sess); err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	middleware.ClearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

// SwitchRole handles PUT /api/session/role.
func (h *SessionHandler) SwitchRole(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.facade.SwitchRole(c.Request.Context(), sess, model.Role(req.Role))
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{Role: string(updated.Role), ExpiresAt: updated.ExpiresAt})
}

// Me handles GET /api/me.
func (h *SessionHandler) Me(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	user, err := h.facade.Me(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
