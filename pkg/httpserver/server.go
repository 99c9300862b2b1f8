package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuskit/notify/pkg/logger"
)

// Server wraps http.Server with signal handling and graceful shutdown.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	log             *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithShutdownTimeout bounds how long in-flight requests may run after a
// stop signal.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// New builds a Server listening on cfg.Addr.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             slog.Default(),
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 5 * time.Second
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves handler until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully. It blocks for the lifetime of the server.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	s.srv.Handler = handler

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	s.log.LogAttrs(ctx, slog.LevelInfo, "http server listening",
		slog.String("addr", s.srv.Addr))

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.shutdown()
	case sig := <-stop:
		s.log.LogAttrs(ctx, slog.LevelInfo, "shutdown signal received",
			slog.String("signal", sig.String()))
		runErr = s.shutdown()
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		s.log.LogAttrs(ctx, slog.LevelError, "http server stopped with error",
			logger.Error(runErr))
		return errors.Join(ErrServer, runErr)
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "http server stopped")
	return nil
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
