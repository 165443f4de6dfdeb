// Package server assembles the HTTP surface: the generation endpoint, the
// progress stream, and the generated CRUD routes mounted from the
// aggregate manifest.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/sheetforge/internal/artifact"
	"github.com/matthewbaird/sheetforge/internal/config"
	"github.com/matthewbaird/sheetforge/internal/gen"
	"github.com/matthewbaird/sheetforge/internal/progress"
	"github.com/matthewbaird/sheetforge/internal/runtime"
)

// Server serves the admin API. The generated part of its surface is
// rebuilt from the manifest after every successful run and swapped in
// without a restart.
type Server struct {
	cfg       config.Config
	store     runtime.Store
	artifacts artifact.Store
	uploads   *runtime.Uploads
	bus       *progress.Bus

	mu  sync.RWMutex
	api http.Handler
}

// New builds a Server. When the artifact store already holds a manifest
// from an earlier run, its routes are mounted immediately.
func New(cfg config.Config, store runtime.Store, artifacts artifact.Store, bus *progress.Bus) (*Server, error) {
	uploads, err := runtime.NewUploads(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:       cfg,
		store:     store,
		artifacts: artifacts,
		uploads:   uploads,
		bus:       bus,
	}
	if err := s.mountManifest(); err != nil {
		if !errors.Is(err, artifact.ErrNotFound) {
			return nil, err
		}
		log.Println("no manifest yet; generated routes mount after the first run")
	}
	return s, nil
}

// Handler returns the assembled root handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/api/generate", s.handleGenerate)
	r.Get("/api/generate/ws", s.handleProgressWS)
	r.Get("/api/navigation", s.handleNavigation)
	r.Handle("/*", http.HandlerFunc(s.serveGenerated))

	return Recovery(Logging(r))
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	log.Printf("starting server on %s", addr)

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveGenerated dispatches into the mounted generated surface.
func (s *Server) serveGenerated(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	api := s.api
	s.mu.RUnlock()
	if api == nil {
		writeError(w, http.StatusNotFound, "NO_MANIFEST", "no generated routes; POST a workbook to /api/generate first")
		return
	}
	api.ServeHTTP(w, r)
}

// handleNavigation serves the aggregate navigation artifact.
func (s *Server) handleNavigation(w http.ResponseWriter, _ *http.Request) {
	raw, err := s.artifacts.Read(artifact.Identity{Slug: "navigation", Kind: artifact.KindMenu})
	if errors.Is(err, artifact.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NO_MANIFEST", "no navigation generated yet")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// mountManifest loads the manifest artifact and swaps in a router built
// from it.
func (s *Server) mountManifest() error {
	raw, err := s.artifacts.Read(artifact.Identity{Slug: "manifest", Kind: artifact.KindManifest})
	if err != nil {
		return err
	}
	var m gen.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}
	router, err := runtime.NewRouter(m, s.store, s.uploads, []byte(s.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("mount manifest: %w", err)
	}

	s.mu.Lock()
	s.api = router
	s.mu.Unlock()
	log.Printf("mounted %d entities from manifest (auth: %t)", len(m.Entities), m.Auth != nil)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
