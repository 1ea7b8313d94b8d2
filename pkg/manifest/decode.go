package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/folioview/pkg/errors"
)

// File is the on-disk manifest format shared by the JSON and TOML decoders.
//
// JSON:
//
//	{"title": "Beromünster", "max_zoom": 5,
//	 "pages": [{"filename": "bm_001.tif", "width": 4000, "height": 6000}]}
//
// TOML:
//
//	title = "Beromünster"
//	max_zoom = 5
//
//	[[pages]]
//	filename = "bm_001.tif"
//	width = 4000
//	height = 6000
type File struct {
	Title   string         `json:"title" toml:"title"`
	MaxZoom int            `json:"max_zoom" toml:"max_zoom"`
	Pages   []PageMetadata `json:"pages" toml:"pages"`
}

// Build validates f and returns its Document.
func (f File) Build() (*Document, error) {
	return New(f.Title, f.MaxZoom, f.Pages)
}

// Decode reads a JSON manifest.
func Decode(r io.Reader) (*Document, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json manifest")
	}
	return f.Build()
}

// DecodeTOML reads a TOML manifest.
func DecodeTOML(r io.Reader) (*Document, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml manifest")
	}
	return f.Build()
}

// DecodeBytes picks the decoder from the content: data whose first non-space
// byte is '{' is JSON, anything else is TOML.
func DecodeBytes(data []byte) (*Document, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return Decode(bytes.NewReader(data))
	}
	return DecodeTOML(bytes.NewReader(data))
}

// LoadFile reads a manifest from disk. Files ending in .toml are decoded as
// TOML, everything else by content.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "manifest %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return DecodeTOML(bytes.NewReader(data))
	}
	return DecodeBytes(data)
}

// Encode writes d as an indented JSON manifest.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(File{Title: d.title, MaxZoom: d.maxZoom, Pages: d.pages})
}
