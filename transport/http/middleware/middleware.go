// Package middleware holds the gin middleware chain of the HTTP server.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/errors"
)

var (
	ErrTooManyRequests = errors.TooManyRequests("too many requests")
	ErrPanic           = errors.Internal("internal server error")
)

func skippedPathPrefixes(c *gin.Context, prefixes ...string) bool {
	path := c.Request.URL.Path
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// route returns the matched route pattern, or "unmatched" for 404s so label
// cardinality stays bounded.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
