package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
)

// LiveHandler upgrades requests into live balance views.
type LiveHandler struct {
	users  SessionFacade
	server LiveServer
	logger *slog.Logger
}

// NewLiveHandler constructs LiveHandler.
func NewLiveHandler(users SessionFacade, server LiveServer, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{users: users, server: server, logger: logger}
}

// Serve handles GET /api/live. The current snapshot is pushed as soon as
// the view opens.
func (h *LiveHandler) Serve(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	user, err := h.users.Me(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}

	// Serve answers the request itself, including failed handshakes.
	if err := h.server.Serve(c.Writer, c.Request, sess, user); err != nil {
		h.logger.Debug("live view not opened", slog.String("session_id", sess.ID), slog.String("error", err.Error()))
	}
	c.Abort()
}
