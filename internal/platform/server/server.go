// Package server runs an HTTP handler until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Server is an http.Server plus the resources that must be released after
// it stops serving.
type Server struct {
	http        *http.Server
	logger      *slog.Logger
	gracePeriod time.Duration
	closers     []closer
}

type closer struct {
	name string
	fn   func() error
}

// New creates a server for handler on the given port.
func New(port int, handler http.Handler, logger *slog.Logger, gracePeriod time.Duration) *Server {
	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 3 * time.Second,
		},
		logger:      logger,
		gracePeriod: gracePeriod,
	}
}

// OnShutdown registers fn to run after the server has stopped. Closers run
// in reverse registration order.
func (s *Server) OnShutdown(name string, fn func() error) {
	s.closers = append(s.closers, closer{name: name, fn: fn})
}

// Run listens on the configured address and blocks until SIGINT or SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.http.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		s.close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	}

	return s.Shutdown()
}

// Shutdown stops the server, waiting up to the grace period for in-flight
// requests, then runs the registered closers.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.gracePeriod)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("graceful server shutdown failed", "error", err)
		if err := s.http.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	errs = append(errs, s.close())
	s.logger.Info("server stopped")
	return errors.Join(errs...)
}

func (s *Server) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.fn(); err != nil {
			s.logger.Error("error closing resource", "resource", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
