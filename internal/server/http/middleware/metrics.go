package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/punterhub/wallet/internal/metrics"
)

// Metrics counts requests per matched route and status code. Unmatched
// paths share one label so scanners cannot blow up the series count.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
