// Package server exposes the savings planner over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bobmcallan/saveplan/internal/app"
	"github.com/bobmcallan/saveplan/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger

	// autosave runs for the server's lifetime; stopping it flushes drafts
	stopAutosave context.CancelFunc
	autosaveDone chan struct{}
	stopOnce     sync.Once
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	s.server = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		Handler:     s.routes(),
		ReadTimeout: 30 * time.Second,
		// Explanations stream for up to the chat timeout
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopAutosave = cancel
	s.autosaveDone = make(chan struct{})
	go func() {
		defer close(s.autosaveDone)
		a.Autosaver.Run(ctx, s.logger)
	}()

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server, then writes any drafts still
// waiting out their autosave delay.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.stopOnce.Do(func() {
		s.stopAutosave()
		select {
		case <-s.autosaveDone:
		case <-ctx.Done():
			s.logger.Warn().Msg("Timed out flushing form drafts")
		}
	})
	return err
}
