// Package server exposes the decoder over HTTP.
package server

import (
	"time"

	"github.com/danmuck/pbdecode/internal/config"
	"github.com/danmuck/pbdecode/internal/observability"
	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

// Server is the HTTP decode service.
type Server struct {
	Name     string
	Addr     string
	Appeared time.Time

	cfg     config.ServerConfig
	decoder *wire.Decoder
	router  *gin.Engine
	logger  zerolog.Logger
}

// New builds a server from cfg. Routes are registered by Serve or
// RegisterRoutes.
func New(cfg config.ServerConfig, logger zerolog.Logger) *Server {
	metrics := observability.NewWireMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	d := cfg.Decoder.NewDecoder()
	d.Observer = metrics
	d.Logger = logger

	return &Server{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		cfg:      cfg,
		decoder:  d,
		router:   r,
		logger:   logger,
	}
}

// HTTPRouter exposes the gin engine for tests and embedding.
func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// Serve registers routes and blocks serving on Addr.
func (s *Server) Serve() error {
	s.RegisterRoutes()
	s.logger.Info().Str("name", s.Name).Str("addr", s.Addr).Msg("decode service started")
	return s.router.Run(s.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
