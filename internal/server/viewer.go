package server

import (
	"context"
	"net/http"

	ferrors "github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/hashparams"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// DocumentRef names a manifest by source or carries it inline.
type DocumentRef struct {
	Manifest string         `json:"manifest,omitempty"`
	Document *manifest.File `json:"document,omitempty"`
}

// ViewerOverrides replaces server defaults for one request.
type ViewerOverrides struct {
	HashParamSuffix     *string `json:"hash_param_suffix,omitempty"`
	EnableFilenameParam *bool   `json:"enable_filename_param,omitempty"`
	PanelWidth          int     `json:"panel_width,omitempty"`
	PanelHeight         int     `json:"panel_height,omitempty"`
}

type resolveRequest struct {
	DocumentRef
	ViewerOverrides
	Fragment string `json:"fragment"`
}

type serializeRequest struct {
	DocumentRef
	ViewerOverrides
	Settings settings.Settings `json:"settings"`
}

type serializeResponse struct {
	Fragment string `json:"fragment"`
}

func (s *Server) document(ctx context.Context, ref DocumentRef) (*manifest.Document, error) {
	switch {
	case ref.Document != nil:
		return ref.Document.Build()
	case ref.Manifest != "":
		if s.loader == nil {
			return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "manifest sources are not enabled")
		}
		if !s.local && !manifest.IsRemote(ref.Manifest) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "manifest must be an http(s) URL")
		}
		return s.loader.Load(ctx, ref.Manifest)
	default:
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "manifest or document is required")
	}
}

func (s *Server) viewerConfig(o ViewerOverrides) viewer.Config {
	cfg := s.viewer
	if o.HashParamSuffix != nil {
		cfg.HashParamSuffix = *o.HashParamSuffix
	}
	if o.EnableFilenameParam != nil {
		cfg.EnableFilenameParam = *o.EnableFilenameParam
	}
	if o.PanelWidth > 0 {
		cfg.PanelWidth, cfg.DisplayWidth = o.PanelWidth, 0
	}
	if o.PanelHeight > 0 {
		cfg.PanelHeight, cfg.DisplayHeight = o.PanelHeight, 0
	}
	cfg.Logger = s.logger
	return cfg
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.document(r.Context(), req.DocumentRef)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := viewer.Resolve(s.viewerConfig(req.ViewerOverrides), doc, req.Fragment)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	var req serializeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.document(r.Context(), req.DocumentRef)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Settings.Validate(doc.PageCount(), doc.MaxZoomLevel()); err != nil {
		s.writeError(w, err)
		return
	}

	cfg := s.viewerConfig(req.ViewerOverrides)
	opts := hashparams.Options{Suffix: cfg.HashParamSuffix, EnableFilenameParam: cfg.EnableFilenameParam}
	ctx := hashparams.Context{
		PageCount:       doc.PageCount(),
		MaxZoomLevel:    doc.MaxZoomLevel(),
		FilenameToIndex: doc.FilenameToIndex,
		IndexToFilename: doc.Filename,
	}
	writeJSON(w, http.StatusOK, serializeResponse{Fragment: hashparams.Serialize(req.Settings, opts, ctx)})
}
