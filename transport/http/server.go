package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/transport"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":8000"
)

// Meta is the metadata of the server.
type Meta struct {
	Name string
}

type Server struct {
	meta    Meta
	options Options
	metrics http.Handler
	server  *http.Server
}

type Option func(*Server)

func WithMeta(meta Meta) Option {
	return func(s *Server) {
		s.meta = meta
	}
}

// WithOptions replaces the swagger, metrics, health and timeout settings.
func WithOptions(opts Options) Option {
	return func(s *Server) {
		s.options = opts
	}
}

// WithMetricsHandler sets the handler served on the metrics path.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.options.init(); err != nil {
		log.Error().Err(err).Msg("apply http server defaults")
	}
	if s.meta.Name == "" {
		s.meta.Name = defaultName
	}

	if !transport.ValidateAddress(addr) {
		log.Warn().Msgf("invalid address %q, using default address %s", addr, defaultAddr)
		addr = defaultAddr
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: s.options.Timeout.ReadHeader,
		WriteTimeout:      s.options.Timeout.Write,
		IdleTimeout:       s.options.Timeout.Idle,
	}

	if r, ok := handler.(*gin.Engine); ok {
		s.mount(r)
	}
	return s
}

// Addr returns the listen address after validation.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Run() error {
	log.Info().Msgf("%s server listening on %s", s.meta.Name, s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msgf("%s server shutting down", s.meta.Name)
	return s.server.Shutdown(ctx)
}

func (s *Server) mount(r *gin.Engine) {
	if s.options.Metrics.Enabled && s.metrics != nil {
		r.GET(s.options.Metrics.Path, gin.WrapH(s.metrics))
	}
	if s.options.Swag.Enabled {
		r.GET(s.options.Swag.Path, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if s.options.Health.Enabled {
		r.GET(s.options.Health.Path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}
