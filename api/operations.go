package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/transport/http/response"
)

// operations lists recent journal entries, newest first.
func (h *Handler) operations(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			response.GinJSONE(c, ErrInvalidParams.WithMetadata(map[string]string{"limit": "must be an integer"}))
			return
		}
		limit = v
	}

	entries, err := h.svc.Operations(c.Request.Context(), limit)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.GinJSON(c, gin.H{"operations": entries, "count": len(entries)})
}
