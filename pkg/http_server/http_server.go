package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type HTTPServer struct {
	server *http.Server
}

type Option func(*HTTPServer)

func NewHTTPServer(handler http.Handler, options ...Option) *HTTPServer {
	srv := &HTTPServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	for _, opt := range options {
		opt(srv)
	}

	return srv
}

func WithAddress(address string) Option {
	return func(srv *HTTPServer) {
		srv.server.Addr = address
	}
}

// WithTimeouts sets read and write timeouts. Zero leaves a value unchanged.
func WithTimeouts(read, write time.Duration) Option {
	return func(srv *HTTPServer) {
		if read > 0 {
			srv.server.ReadTimeout = read
		}
		if write > 0 {
			srv.server.WriteTimeout = write
		}
	}
}

// WithMiddleware wraps the handler; the last middleware given is outermost.
func WithMiddleware(middlewares ...func(http.Handler) http.Handler) Option {
	return func(srv *HTTPServer) {
		for _, middleware := range middlewares {
			srv.server.Handler = middleware(srv.server.Handler)
		}
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	slog.Info("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	slog.Info("Stopping HTTP server", "address", s.server.Addr)
	return s.server.Shutdown(ctx)
}
