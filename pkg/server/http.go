// Package server provides the HTTP server wrapper around gin.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/rigel-labs/chatrag/pkg/middleware"
	options "github.com/rigel-labs/chatrag/pkg/options/server/http"
)

// Options is re-exported from pkg/options/server/http for convenience.
type Options = options.Options

// NewOptions is re-exported from pkg/options/server/http for convenience.
var NewOptions = options.NewOptions

// Server is the HTTP server implementation.
type Server struct {
	opts   *options.Options
	engine *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server with the given options. Middleware is
// applied at engine creation so every route group inherits it.
func NewServer(opts *options.Options) *Server {
	if opts == nil {
		opts = options.NewOptions()
	}

	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.MaxMultipartMemory = opts.MaxUploadSize

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "route not found",
		})
	})

	middleware.RegisterHealthRoutes(engine)

	return &Server{
		opts:   opts,
		engine: engine,
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return "http[gin]"
}

// Engine returns the underlying gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the server until the context is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.opts.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts down the server, waiting for in-flight requests
// until the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	logger.Infow("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
