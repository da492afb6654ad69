// Package httpapi exposes the Context & Index Store's index and search
// operations as a small JSON HTTP surface. The transport layer itself is
// an external collaborator, not the core — this package is a thin,
// intentionally simple adapter.
//
// Handler shape (extract params, call into the domain layer, encode a
// JSON envelope) is grounded on rybkr-gitvista/internal/server/handlers.go;
// the Server struct (addr, logger, httpServer, shutdown plumbing) on that
// package's server.go.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gopherindex/csindex/store"
)

// DefaultAddr is the bind address used when the caller doesn't override it.
const DefaultAddr = "0.0.0.0:5555"

// Server adapts a *store.Context onto POST /index and POST /search.
type Server struct {
	ctx               *store.Context
	defaultMaxResults int
	logger            *slog.Logger

	httpServer *http.Server
}

// New builds a Server. addr defaults to DefaultAddr if empty; a
// defaultMaxResults of 0 means unbounded search.
func New(storeCtx *store.Context, addr string, defaultMaxResults int, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		ctx:               storeCtx,
		defaultMaxResults: defaultMaxResults,
		logger:            logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/index", s.handleIndex).Methods(http.MethodPost)
	router.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until the server is shut down or it
// fails to bind.
func (s *Server) ListenAndServe() error {
	s.logger.Info("httpapi: listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("httpapi: listen and serve: %w", err)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
