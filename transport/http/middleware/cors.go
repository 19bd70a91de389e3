package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	ExposeHeaders    []string
	MaxAge           int
}

// DefaultCorsConfig allows the given origins with the methods and headers the API uses.
func DefaultCorsConfig(origins ...string) CorsConfig {
	return CorsConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", RequestIDHeader},
		AllowCredentials: true,
		ExposeHeaders:    []string{RequestIDHeader},
		MaxAge:           43200,
	}
}

func Cors(origins ...string) gin.HandlerFunc {
	return CorsWithConfig(DefaultCorsConfig(origins...))
}

func CorsWithConfig(config CorsConfig) gin.HandlerFunc {
	wildcard := slices.Contains(config.AllowOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || (!wildcard && !slices.Contains(config.AllowOrigins, origin)) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowMethods, ","))
		h.Set("Access-Control-Allow-Headers", strings.Join(config.AllowHeaders, ","))
		h.Set("Access-Control-Allow-Credentials", strconv.FormatBool(config.AllowCredentials))
		h.Set("Access-Control-Expose-Headers", strings.Join(config.ExposeHeaders, ","))
		h.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
