// Package dev implements the development server: static serving of the
// build output with SPA deep-link fallback, a WebSocket live-reload
// channel, and a file watcher that rebuilds on change.
package dev

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tiller-ui/tiller/internal/config"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Build produces the serveable output; it is run once on start and
	// again on every file change.
	Build func() error

	// Logger receives server events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the development server.
type Server struct {
	config *config.Config
	build  func() error
	logger *slog.Logger

	reload  *ReloadServer
	watcher *Watcher

	httpServer *http.Server
}

// NewServer creates a development server.
func NewServer(options ServerOptions) *Server {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: options.Config,
		build:  options.Build,
		logger: logger,
		reload: NewReloadServer(),
	}

	s.watcher = NewWatcher(WatcherConfig{
		Paths:    options.Config.Dev.Watch,
		Ignore:   options.Config.Dev.Ignore,
		Debounce: 100 * time.Millisecond,
	})
	s.watcher.OnChange(s.onChange)

	return s
}

// Start builds once, starts the watcher, and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	if s.build != nil {
		if err := s.build(); err != nil {
			return err
		}
	}

	if err := s.watcher.Start(); err != nil {
		return err
	}
	defer s.watcher.Stop()
	defer s.reload.Close()

	s.httpServer = &http.Server{
		Addr:    s.config.Addr(),
		Handler: s.handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info("dev server listening",
		"addr", s.config.Addr(), "output", s.config.Output)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handler builds the chi route tree: the reload socket, static files from
// the output directory, and an index.html fallback so deep links into the
// SPA resolve.
func (s *Server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.NoCache)

	r.Get("/__tiller/reload", s.reload.HandleWebSocket)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.serveFile(w, req, req.URL.Path)
	})

	return r
}

func (s *Server) serveFile(w http.ResponseWriter, req *http.Request, urlPath string) {
	rel := strings.TrimPrefix(filepath.Clean("/"+urlPath), "/")
	full := filepath.Join(s.config.Output, rel)

	info, err := os.Stat(full)
	if err == nil && !info.IsDir() {
		http.ServeFile(w, req, full)
		return
	}

	// Anything that is not a file on disk is a route into the app:
	// serve index.html, with the reload client injected.
	index, err := os.ReadFile(filepath.Join(s.config.Output, "index.html"))
	if err != nil {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(injectReloadClient(index))
}

func (s *Server) onChange(c Change) {
	s.logger.Info("change detected", "path", c.Path)

	if s.build != nil {
		if err := s.build(); err != nil {
			s.logger.Error("rebuild failed", "error", err)
			s.reload.NotifyError(err.Error())
			return
		}
	}
	s.reload.NotifyReload(c.Path)
	s.logger.Info("reloaded clients", "count", s.reload.ClientCount())
}

// injectReloadClient inserts the reload script before </body>, or appends
// it when the page has no closing body tag.
func injectReloadClient(index []byte) []byte {
	html := string(index)
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		return []byte(html[:i] + ReloadClientScript + html[i:])
	}
	return []byte(html + ReloadClientScript)
}
