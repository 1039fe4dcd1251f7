package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/metrics"
)

// Limiter decides whether one more request under key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests beyond the limiter's budget with 429. Requests
// are keyed by session user, or by client IP before authentication. When the
// limiter itself fails the request is let through.
func RateLimit(limiter Limiter, route string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := route + ":" + rateKey(c)
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", slog.String("route", route), slog.String("error", err.Error()))
		}
		if !allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": domainErrors.MsgTooManyRequests})
			return
		}
		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if v, ok := c.Get(SessionContextKey); ok {
		if sess, ok := v.(*model.Session); ok {
			return "user:" + sess.UserID
		}
	}
	return "ip:" + c.ClientIP()
}
