package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MonkeyKingDev/git-peek/internal/auth"
	"github.com/MonkeyKingDev/git-peek/internal/config"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
	"github.com/MonkeyKingDev/git-peek/internal/server"
	"github.com/MonkeyKingDev/git-peek/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analytics API server",
	Long: `Run the HTTP server exposing the OAuth flow, repository listing and
the analysis endpoints, including the Server-Sent Events stream.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logging.New(logging.DefaultConfig(cfg.Env))

	sessions, err := newSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() { _ = sessions.Close() }()

	authSvc := auth.NewService(cfg, sessions, log)
	handlers := server.NewHandlers(cfg, authSvc, log)
	srv := server.NewHTTPServer(cfg.Server, server.NewRouter(handlers, authSvc, log), log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "bolt":
		return session.NewBoltStore(cfg.Session.BoltPath, cfg.Session.TTL)
	case "memory", "":
		return session.NewMemoryStore(cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
