package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/villageflow/villageflow-api/internal/service"
)

// Metrics records one observation per request. The route template
// (FullPath) is used as the label so path parameters do not explode
// cardinality; unmatched routes fall back to the raw path.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
