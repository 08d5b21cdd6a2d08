// Package httpapi serves the bookmark container as a local JSON API for a
// browser helper or scripts.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikbrunner/popmark/internal/httpapi/mw"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/state"
	"github.com/nikbrunner/popmark/internal/tabinfo"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	State  *state.Container
	Tabs   *tabinfo.Mailbox
	Pages  *tabinfo.PageFetcher // optional, enriches drafts with page metadata
	Logger logger.Logger

	StartTime    time.Time
	Version      string
	DefaultColor string
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// New builds the HTTP server (router, middlewares, route registration).
func New(addr string, d Deps) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(d),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger: d.Logger,
	}
}

// NewRouter returns the API handler.
func NewRouter(d Deps) http.Handler {
	if d.Tabs == nil {
		d.Tabs = &tabinfo.Mailbox{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(mw.Log(d.Logger))
	r.Use(mw.LocalOnly(d.Logger))

	r.Get("/healthz", healthz(d))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Cache-Control", "no-store"))

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", listBookmarks(d))
			r.Post("/", createBookmark(d))
			r.Patch("/{id}", updateBookmark(d))
			r.Delete("/{id}", deleteBookmark(d))
			r.Post("/{id}/favorite", toggleFavorite(d))
		})

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", listFolders(d))
			r.Post("/", createFolder(d))
			r.Delete("/{id}", deleteFolder(d))
			r.Post("/{id}/toggle", toggleFolder(d))
			r.Post("/{id}/move", moveFolder(d))
		})

		r.Get("/tree", visibleTree(d))
		r.Get("/tags", listTags(d))
		r.Get("/selection", getSelection(d))
		r.Put("/selection", putSelection(d))
		r.Put("/tab", putTab(d))
		r.Get("/draft", getDraft(d))
	})

	return r
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Infof("HTTP API listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	// http.ErrServerClosed is expected on graceful shutdown.
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP API shutting down")
	return s.http.Shutdown(ctx)
}
