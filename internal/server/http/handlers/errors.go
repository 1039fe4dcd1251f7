package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
)

// respondError maps err to a status code and writes {"error": message}.
// fallback is shown when err carries no user-facing message.
func respondError(c *gin.Context, err error, fallback string) {
	status, msg := classify(err, fallback)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classify(err error, fallback string) (int, string) {
	var ve *domainErrors.ValidationError
	if errors.As(err, &ve) {
		if errors.Is(err, domainErrors.ErrStaleResolution) {
			return http.StatusConflict, ve.Message
		}
		return http.StatusUnprocessableEntity, ve.Message
	}

	var be *domainErrors.BackendError
	if errors.As(err, &be) {
		switch {
		case be.Status == http.StatusUnauthorized:
			return http.StatusUnauthorized, domainErrors.UserMessage(err, domainErrors.MsgSignIn)
		case be.Status >= 400 && be.Status < 500:
			return be.Status, domainErrors.UserMessage(err, fallback)
		default:
			return http.StatusBadGateway, domainErrors.UserMessage(err, fallback)
		}
	}

	var pe *domainErrors.ProviderError
	var me *domainErrors.MalformedResponseError
	switch {
	case errors.As(err, &pe), errors.As(err, &me):
		return http.StatusBadGateway, fallback
	case errors.Is(err, domainErrors.ErrBackendUnreachable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, domainErrors.MsgUnreachable
	case errors.Is(err, domainErrors.ErrDraftChanged):
		return http.StatusConflict, domainErrors.MsgDraftChanged
	case errors.Is(err, domainErrors.ErrAlreadyProcessed):
		return http.StatusConflict, domainErrors.MsgAlreadyProcessed
	case errors.Is(err, domainErrors.ErrForbiddenRole):
		return http.StatusForbidden, domainErrors.MsgForbiddenRole
	case errors.Is(err, domainErrors.ErrUnauthenticated):
		return http.StatusUnauthorized, domainErrors.MsgSignIn
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound, domainErrors.MsgNotFound
	default:
		return http.StatusInternalServerError, fallback
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": domainErrors.MsgBadRequest})
}
