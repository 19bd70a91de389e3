package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/metrics"
)

// Metrics 记录请求数与延迟, 按路由模板聚合
func Metrics(m *metrics.Metrics, skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skippedPathPrefixes(c, skipPaths...) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		r := route(c)
		m.HTTPRequests.WithLabelValues(c.Request.Method, r, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, r).Observe(time.Since(start).Seconds())
	}
}
