// Package http provides the HTTP server, router setup and server-level
// middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/openfoundry/releases/internal/auth/http"
	keysHTTP "github.com/openfoundry/releases/internal/keys/http"
)

// RouterConfig carries the handlers and optional middleware the router
// mounts. Nil middleware entries are skipped.
type RouterConfig struct {
	TokenHandler *authHTTP.TokenHandler
	KeyHandler   *keysHTTP.KeyHandler

	// AuthenticationMiddleware guards the protected route groups.
	AuthenticationMiddleware gin.HandlerFunc
	// AdminMiddleware guards the administrative route group.
	AdminMiddleware gin.HandlerFunc
	// ExchangeRateLimitMiddleware throttles the credential exchange endpoint.
	ExchangeRateLimitMiddleware gin.HandlerFunc
	// MetricsMiddleware records request metrics when metrics are enabled.
	MetricsMiddleware gin.HandlerFunc
	// CORSMiddleware applies CORS headers when enabled.
	CORSMiddleware gin.HandlerFunc
}

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The database handle is used by the
// readiness endpoint; it may be nil in tests.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin engine and registers every route.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}
	if cfg.CORSMiddleware != nil {
		router.Use(cfg.CORSMiddleware)
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Credential exchange: the only unauthenticated write.
	exchange := router.Group("/api")
	if cfg.ExchangeRateLimitMiddleware != nil {
		exchange.Use(cfg.ExchangeRateLimitMiddleware)
	}
	exchange.POST("/jwt", cfg.TokenHandler.ExchangeJWTHandler)

	// Public reads of the published key registry.
	public := router.Group("/v1")
	public.GET("/committees/:name/keys", cfg.KeyHandler.ListCommitteeKeysHandler)
	public.GET("/committees/:name/keys-file", cfg.KeyHandler.GetKeysFileHandler)

	// Authenticated surface.
	protected := router.Group("/v1")
	protected.Use(cfg.AuthenticationMiddleware)
	protected.POST("/pats", cfg.TokenHandler.IssuePATHandler)
	protected.GET("/pats", cfg.TokenHandler.ListPATsHandler)
	protected.POST("/pats/:id/revoke", cfg.TokenHandler.RevokePATHandler)
	protected.POST("/keys", cfg.KeyHandler.StoreKeyHandler)
	protected.POST("/committees/:name/keys/import", cfg.KeyHandler.ImportKeysHandler)
	protected.POST("/committees/:name/keys/:fingerprint/link", cfg.KeyHandler.LinkKeyHandler)
	protected.POST("/committees/:name/keys/:fingerprint/unlink", cfg.KeyHandler.UnlinkKeyHandler)
	protected.POST("/committees/:name/keys-file", cfg.KeyHandler.RegenerateKeysFileHandler)

	// Administrative surface.
	admin := router.Group("/v1/admin")
	admin.Use(cfg.AuthenticationMiddleware, cfg.AdminMiddleware)
	admin.POST("/committees/:name/keys/delete", cfg.KeyHandler.PurgeCommitteeKeysHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic, checking
// each dependency individually.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
