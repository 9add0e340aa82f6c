// Package preview serves a built report locally with the same URL layout
// as the hosted site, and captures screenshots of it.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
)

// SitePrefix is the path the report is hosted under.
const SitePrefix = "/nfl-dfs"

// NewRouter serves the report directory at SitePrefix and the hosted
// headshots at SitePrefix/headshots.
func NewRouter(paths config.Paths) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, SitePrefix+"/", http.StatusFound)
	})

	headshots := http.StripPrefix(SitePrefix+"/headshots/", http.FileServer(http.Dir(paths.CompressedDir)))
	site := http.StripPrefix(SitePrefix+"/", http.FileServer(http.Dir(filepath.Dir(paths.Output))))
	r.Handle(SitePrefix+"/headshots/*", headshots)
	r.Handle(SitePrefix+"/*", site)

	return r
}

type Server struct {
	srv *http.Server
}

func NewServer(addr string, paths config.Paths) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      middleware.Logger(NewRouter(paths)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server started", "addr", s.srv.Addr, "url", fmt.Sprintf("http://localhost%s%s/", s.srv.Addr, SitePrefix))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error serving preview: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down preview: %w", err)
	}
	return nil
}
