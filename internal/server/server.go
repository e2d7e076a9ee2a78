// Package server hosts the temporary localhost HTTP server used during the
// OAuth2 login flow.
//
// The [Router] interface defines routing with [Middleware] support; the
// [BasicRouter] implementation wraps [http.ServeMux] with method filtering.
// [OAuthHandler] implements the authorization-code callback: it validates the
// state parameter, exchanges the code for tokens, and delivers exactly one
// [OAuthResult] through its channel. [Listen] ties the two together for the
// lifetime of one login attempt and shuts the server down afterwards.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows its own route patterns, so handlers
// can register everything they serve in one call.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and middleware and serves the result.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// RequestLogger logs each request with method, path and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// Listen serves the handler on the configured host and port until ctx is
// cancelled, then shuts down gracefully. It returns once the server has
// stopped.
func Listen(ctx context.Context, cfg shared.ServerConfig, handler http.Handler, logger *log.Logger) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Debug("callback server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down callback server: %w", err)
	}
	return <-errCh
}
