// Package api exposes the lab service over HTTP under /api/v1.
package api

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/core/validator"
	"github.com/kochabx/rsalab/errors"
	"github.com/kochabx/rsalab/lab"
	"github.com/kochabx/rsalab/transport/http/response"
)

const Prefix = "/api/v1"

var (
	ErrInvalidBody   = errors.BadRequest("invalid request body")
	ErrInvalidParams = errors.BadRequest("invalid parameters")
)

type Handler struct {
	svc      *lab.Service
	validate validator.Validator
	limiters []gin.HandlerFunc
}

type Option func(*Handler)

// WithValidator replaces the global validator.
func WithValidator(v validator.Validator) Option {
	return func(h *Handler) {
		if v != nil {
			h.validate = v
		}
	}
}

// WithGenerateLimiter guards prime generation, the most expensive endpoint.
func WithGenerateLimiter(mw ...gin.HandlerFunc) Option {
	return func(h *Handler) {
		h.limiters = append(h.limiters, mw...)
	}
}

func NewHandler(svc *lab.Service, opts ...Option) *Handler {
	h := &Handler{svc: svc, validate: validator.Validate}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts every endpoint on r.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group(Prefix)
	v1.GET("", h.root)

	primes := v1.Group("/primes")
	generate := append(append([]gin.HandlerFunc{}, h.limiters...), h.generatePrimes)
	primes.POST("/generate", generate...)
	primes.GET("/current", h.currentPrimes)
	primes.DELETE("/clear", h.clearPrimes)

	keys := v1.Group("/keys")
	keys.POST("/generate", h.generateKeys)
	keys.GET("/current", h.currentKeys)
	keys.POST("/validate", h.validateKeys)

	crypto := v1.Group("/crypto")
	crypto.POST("/encrypt", h.encrypt)
	crypto.POST("/decrypt", h.decrypt)
	crypto.POST("/encrypt-with-stored-keys", h.encryptWithStoredKeys)
	crypto.POST("/decrypt-with-stored-keys", h.decryptWithStoredKeys)

	v1.GET("/operations", h.operations)

	health := v1.Group("/health")
	health.GET("", h.health)
	health.GET("/ready", h.ready)
	health.GET("/live", h.live)
}

func (h *Handler) root(c *gin.Context) {
	response.GinJSON(c, gin.H{
		"message": "RSA Cryptography API",
		"endpoints": gin.H{
			"primes":     Prefix + "/primes/*",
			"keys":       Prefix + "/keys/*",
			"crypto":     Prefix + "/crypto/*",
			"operations": Prefix + "/operations",
			"health":     Prefix + "/health/*",
		},
	})
}

// bind decodes the JSON body into req and validates it. An empty body leaves
// req at its zero value.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			response.GinJSONE(c, ErrInvalidBody.WithCause(err))
			return false
		}
	}
	if err := h.validate.Struct(req); err != nil {
		response.GinJSONE(c, invalidParams(err))
		return false
	}
	return true
}

func invalidParams(err error) error {
	var ve *validator.ValidationErrors
	if !errors.As(err, &ve) {
		return ErrInvalidParams.WithCause(err)
	}
	md := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		md[f.Field] = f.Message
	}
	return ErrInvalidParams.WithMetadata(md).WithCause(err)
}

// parseInt reads a non-negative decimal operand no wider than the service's
// MaxOperandDigits.
func (h *Handler) parseInt(field, s string) (*big.Int, error) {
	if limit := h.svc.Settings().MaxOperandDigits(); len(s) > limit {
		return nil, ErrInvalidParams.WithMetadata(map[string]string{field: "must be at most " + strconv.Itoa(limit) + " digits"})
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrInvalidParams.WithMetadata(map[string]string{field: "must be a non-negative decimal integer"})
	}
	return v, nil
}

func (h *Handler) parseInts(field string, values []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(values))
	for i, s := range values {
		v, err := h.parseInt(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
