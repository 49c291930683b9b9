// Package staticsite serves a previously built snapshot tree. No store, no
// enrichment; every response comes straight off disk.
package staticsite

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"almanac/internal/platform/middleware"
)

// Server resolves request paths against the snapshot directory.
type Server struct {
	logger  *slog.Logger
	siteDir string
}

// New creates a Server. A missing snapshot directory is a startup error so
// the operator learns to build before serving.
func New(logger *slog.Logger, siteDir string) (*Server, error) {
	st, err := os.Stat(siteDir)
	if err != nil {
		return nil, fmt.Errorf("snapshot dir %q not found, build the snapshot first: %w", siteDir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("snapshot path %q is not a directory", siteDir)
	}
	return &Server{logger: logger, siteDir: siteDir}, nil
}

// Router builds the HTTP handler for the static site.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logger(s.logger))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/", http.StatusFound)
	})
	r.Get("/*", s.serve)
	return r
}

// serve tries <path>/index.html, then <path>.json. Snapshot artifacts are
// JSON documents whatever their extension, so both are served as such.
func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	rel, ok := s.relPath(r.URL.Path)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	for _, candidate := range []string{
		filepath.Join(s.siteDir, rel, "index.html"),
		filepath.Join(s.siteDir, rel+".json"),
	} {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	http.Error(w, "not found", http.StatusNotFound)
}

// relPath normalizes the URL path to a relative file path, rejecting
// anything that could escape the snapshot directory.
func (s *Server) relPath(urlPath string) (string, bool) {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(trimmed))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", false
	}
	return clean, true
}
