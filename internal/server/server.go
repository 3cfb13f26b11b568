// Package server exposes the repository analytics API over HTTP,
// including the Server-Sent Events streaming variant of the analysis.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/MonkeyKingDev/git-peek/internal/config"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
)

// HTTPServer wraps http.Server with graceful shutdown.
type HTTPServer struct {
	srv    *http.Server
	logger *logging.Logger
}

// NewHTTPServer builds the server from the listen configuration. The
// write timeout is left to the config; streaming responses need it
// generous or zero.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler, logger *logging.Logger) *HTTPServer {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &HTTPServer{
		srv:    srv,
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string { return s.srv.Addr }

// Start blocks serving requests until Shutdown or a listener error.
func (s *HTTPServer) Start() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests, giving up after ctx or a 10s
// hard cap, whichever comes first.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCh := make(chan error, 1)

	go func() {
		shutdownCh <- s.srv.Shutdown(ctx)
	}()

	select {
	case err := <-shutdownCh:
		return err

	case <-ctx.Done():
		return ctx.Err()

	case <-time.After(10 * time.Second):
		return context.DeadlineExceeded
	}
}
