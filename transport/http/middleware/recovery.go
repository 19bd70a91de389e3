package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/transport/http/response"
)

// Recovery 捕获 handler 中的 panic, 记录堆栈并返回 500 响应
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("panic", fmt.Sprint(r)).
					Str("stack", string(debug.Stack())).
					Str("uri", c.Request.RequestURI).
					Str("request_id", GetRequestID(c)).
					Msg("handler panic recovered")
				response.GinJSONE(c, ErrPanic.WithCause(fmt.Errorf("%v", r)))
			}
		}()
		c.Next()
	}
}
