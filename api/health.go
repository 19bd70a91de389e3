package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/transport/http/response"
)

func (h *Handler) health(c *gin.Context) {
	response.GinJSON(c, h.svc.Health())
}

// ready answers 503 when any component is down.
func (h *Handler) ready(c *gin.Context) {
	r := h.svc.Ready(c.Request.Context())
	if !r.Ready {
		c.JSON(http.StatusServiceUnavailable, response.NewResponse(http.StatusServiceUnavailable, r, r.Status))
		return
	}
	response.GinJSON(c, r)
}

func (h *Handler) live(c *gin.Context) {
	response.GinJSON(c, h.svc.Live())
}
