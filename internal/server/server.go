// Package server runs the todo API over HTTP with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// context passed to Run is cancelled.
const shutdownTimeout = 5 * time.Second

// Server serves an http.Handler on a TCP port.
type Server struct {
	handler http.Handler
	port    int
	logger  *log.Logger

	ln net.Listener
}

// New creates a Server. Nothing is bound until Listen or Run is called.
func New(handler http.Handler, port int, logger *log.Logger) *Server {
	return &Server{
		handler: handler,
		port:    port,
		logger:  logger,
	}
}

// Listen binds the configured port. Port 0 picks a free port.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run serves requests until ctx is cancelled, then shuts down gracefully.
// Listen is called first if it has not been already.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// requests keep ctx values but must outlive its cancellation so
		// Shutdown can drain them
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(s.ln)
	}()

	s.logger.Info("server listening", "addr", s.ln.Addr().String())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
