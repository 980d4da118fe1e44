// Package server exposes the bookmark cache as a local JSON API for the
// browser-extension front end.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/logging"
)

// DefaultAddr keeps the API on the loopback interface.
const DefaultAddr = "127.0.0.1:7878"

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr string

	// Origins allowed by CORS. Empty allows any origin, which is fine for a
	// server bound to localhost.
	Origins []string

	Logger logrus.FieldLogger
}

// Server serves the cache over HTTP.
type Server struct {
	cache   *cache.Client
	addr    string
	log     logrus.FieldLogger
	handler http.Handler
}

// New creates a Server for c.
func New(c *cache.Client, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Log
	}

	s := &Server{
		cache: c,
		addr:  opts.Addr,
		log:   opts.Logger,
	}

	// Order: CORS -> Recovery -> Logging -> Routes
	var handler http.Handler = s.routes()
	handler = logRequests(s.log)(handler)
	handler = recovery(s.log)(handler)

	origins := opts.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:         86400,
	}).Handler(handler)

	s.handler = handler
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("api listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
