package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/folioview/pkg/bookmark"
	ferrors "github.com/matzehuels/folioview/pkg/errors"
)

type createBookmarkRequest struct {
	Name     string `json:"name"`
	Manifest string `json:"manifest"`
	Fragment string `json:"fragment"`
}

type bookmarkResponse struct {
	*bookmark.Bookmark
	URL string `json:"url"`
}

func newBookmarkResponse(b *bookmark.Bookmark) bookmarkResponse {
	return bookmarkResponse{Bookmark: b, URL: b.URL()}
}

func (s *Server) requireBookmarks(w http.ResponseWriter) bool {
	if s.bookmarks == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{
			Code:    string(ferrors.ErrCodeInvalidConfig),
			Message: "bookmarks are not enabled",
		})
		return false
	}
	return true
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	if !s.requireBookmarks(w) {
		return
	}
	all, err := s.bookmarks.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]bookmarkResponse, 0, len(all))
	for _, b := range all {
		out = append(out, newBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	if !s.requireBookmarks(w) {
		return
	}
	var req createBookmarkRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	b, err := bookmark.New(req.Name, req.Manifest, req.Fragment)
	if err != nil {
		s.writeError(w, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "invalid bookmark"))
		return
	}
	if err := s.bookmarks.Put(r.Context(), b); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("bookmark created", "id", b.ID, "name", b.Name)
	writeJSON(w, http.StatusCreated, newBookmarkResponse(b))
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	if !s.requireBookmarks(w) {
		return
	}
	b, err := bookmark.Resolve(r.Context(), s.bookmarks, chi.URLParam(r, "ref"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookmarkResponse(b))
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if !s.requireBookmarks(w) {
		return
	}
	b, err := bookmark.Resolve(r.Context(), s.bookmarks, chi.URLParam(r, "ref"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.bookmarks.Delete(r.Context(), b.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
