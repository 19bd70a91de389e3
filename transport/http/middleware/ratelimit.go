package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/core/rate"
	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/transport/http/response"
)

// RateLimit 按客户端 IP 限流. 限流器出错时放行请求并记录告警
func RateLimit(l rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := rate.Allow(c.Request.Context(), l, c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("rate limiter unavailable, request allowed")
			c.Next()
			return
		}
		if !ok {
			response.GinJSONE(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
