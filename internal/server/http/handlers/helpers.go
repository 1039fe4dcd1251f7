package handlers

import (
	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/server/http/dto"
	"github.com/punterhub/wallet/internal/server/http/middleware"
)

// CurrentSession extracts the authenticated session from context.
func CurrentSession(c *gin.Context) *model.Session {
	val, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := val.(*model.Session)
	return sess
}

func toUserResponse(u *model.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Balance:     u.Balance.String(),
		Currency:    model.Currency,
		Verified:    u.Verified,
		CountryCode: u.CountryCode,
		Role:        string(u.Role),
	}
}

// mustSession returns the request's session or answers 401.
func mustSession(c *gin.Context) (*model.Session, bool) {
	sess := CurrentSession(c)
	if sess == nil {
		respondError(c, domainErrors.ErrUnauthenticated, domainErrors.MsgSignIn)
		return nil, false
	}
	return sess, true
}
