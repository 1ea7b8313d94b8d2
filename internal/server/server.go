// Package server exposes the view-state core over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /api/v1/resolve          fragment + manifest -> settings, scroll, geometry
//	POST   /api/v1/serialize        settings + manifest -> fragment
//	GET    /api/v1/bookmarks
//	POST   /api/v1/bookmarks
//	GET    /api/v1/bookmarks/{ref}
//	DELETE /api/v1/bookmarks/{ref}
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/folioview/pkg/bookmark"
	"github.com/matzehuels/folioview/pkg/buildinfo"
	ferrors "github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// maxBodyBytes bounds request bodies, which may carry inline manifests.
const maxBodyBytes = 8 << 20

// Loader resolves a manifest source. *manifest.Fetcher implements it.
type Loader interface {
	Load(ctx context.Context, source string) (*manifest.Document, error)
}

// Options configures a Server.
type Options struct {
	Loader    Loader
	Bookmarks bookmark.Store
	Viewer    viewer.Config
	Logger    *log.Logger

	// AllowLocal lets requests name manifests on the server's filesystem.
	AllowLocal bool
}

// Server is the HTTP API.
type Server struct {
	router    chi.Router
	loader    Loader
	bookmarks bookmark.Store
	viewer    viewer.Config
	logger    *log.Logger
	local     bool
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		loader:    opts.Loader,
		bookmarks: opts.Bookmarks,
		viewer:    opts.Viewer,
		logger:    opts.Logger,
		local:     opts.AllowLocal,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/serialize", s.handleSerialize)
		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", s.handleListBookmarks)
			r.Post("/", s.handleCreateBookmark)
			r.Get("/{ref}", s.handleGetBookmark)
			r.Delete("/{ref}", s.handleDeleteBookmark)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := ferrors.GetCode(err)
	status := code.HTTPStatus()
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		status, code = http.StatusNotFound, ferrors.ErrCodeNotFound
	case errors.Is(err, bookmark.ErrAmbiguous):
		status, code = http.StatusConflict, ferrors.ErrCodeInvalidInput
	}
	if code == "" {
		code = ferrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: ferrors.UserMessage(err)})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
