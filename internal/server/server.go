package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/bobmcallan/mcpforge/internal/app"
	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/config"
)

// Server serves the REST API, with /mcp mounted when the MCP transport is
// http.
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
	logger *common.Logger
}

// New builds the API server. Timeouts come from the [server] config section.
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		logger: application.Logger,
	}
	s.router = s.setupRoutes()

	cfg := application.Config.Server
	s.server = &http.Server{
		Addr:         application.Config.Address(),
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  config.Seconds(cfg.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.WriteTimeout),
		IdleTimeout:  config.Seconds(cfg.IdleTimeout),
	}
	return s
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests for at most the configured shutdown timeout. A clean shutdown
// returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	addr := ln.Addr().String()
	s.logger.Info().
		Str("address", addr).
		Str("url", "http://"+addr).
		Msg("HTTP API listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := config.Seconds(s.app.Config.Server.ShutdownTimeout)
	s.logger.Info().Dur("timeout", timeout).Msg("draining HTTP API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-errCh

	s.logger.Info().Msg("HTTP API stopped")
	return nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
