// Package manifest describes the pages of a document as the view-state core
// sees them.
//
// The core needs only a handful of facts per document: how many pages there
// are, each page's intrinsic size and filename, the highest zoom level, and
// the scale factor applied at each zoom level. [Manifest] captures exactly
// that contract and [Document] is its in-memory implementation.
//
// Intrinsic page dimensions are measured at the maximum zoom level. Every
// lower level halves the resolution, so
//
//	ScaleFactor(z) = 2^(z - MaxZoomLevel)
//
// Loading documents from JSON or TOML files and fetching them over HTTP is
// handled by [Decode], [DecodeTOML], [LoadFile] and [Fetcher].
package manifest

import (
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/folioview/pkg/errors"
)

// PageMetadata is one page of a document. It is immutable.
type PageMetadata struct {
	Index    int    `json:"index" toml:"-"`
	Width    int    `json:"width" toml:"width"`
	Height   int    `json:"height" toml:"height"`
	Filename string `json:"filename,omitempty" toml:"filename"`
}

// Manifest is the read-only view of a document used by the core.
type Manifest interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Page returns the page at index. index must be in [0, PageCount()).
	Page(index int) PageMetadata

	// Pages returns every page ordered by index. Callers must not modify it.
	Pages() []PageMetadata

	// MaxZoomLevel returns the highest supported zoom level.
	MaxZoomLevel() int

	// ScaleFactor maps a zoom level to the factor applied to intrinsic
	// page dimensions. It increases monotonically with the zoom level.
	ScaleFactor(zoomLevel int) float64

	// FilenameToIndex resolves a page filename.
	FilenameToIndex(name string) (int, bool)
}

// Document is an in-memory Manifest.
type Document struct {
	title   string
	maxZoom int
	pages   []PageMetadata
	byName  map[string]int
}

// New builds a Document. Page indices are reassigned from slice order.
// Pages must have positive dimensions and filenames, when present, must be
// unique.
func New(title string, maxZoom int, pages []PageMetadata) (*Document, error) {
	if maxZoom < 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "max zoom level %d is negative", maxZoom)
	}

	d := &Document{
		title:   title,
		maxZoom: maxZoom,
		pages:   make([]PageMetadata, len(pages)),
		byName:  make(map[string]int, len(pages)),
	}
	for i, p := range pages {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "page %d has invalid size %dx%d", i, p.Width, p.Height)
		}
		p.Index = i
		d.pages[i] = p
		if p.Filename == "" {
			continue
		}
		key := norm.NFC.String(p.Filename)
		if prev, dup := d.byName[key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "pages %d and %d share filename %q", prev, i, p.Filename)
		}
		d.byName[key] = i
	}
	return d, nil
}

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// PageCount implements Manifest.
func (d *Document) PageCount() int { return len(d.pages) }

// Page implements Manifest.
func (d *Document) Page(index int) PageMetadata { return d.pages[index] }

// Pages implements Manifest.
func (d *Document) Pages() []PageMetadata { return d.pages }

// MaxZoomLevel implements Manifest.
func (d *Document) MaxZoomLevel() int { return d.maxZoom }

// ScaleFactor implements Manifest. Levels outside [0, max] are clamped.
func (d *Document) ScaleFactor(zoomLevel int) float64 {
	zoomLevel = min(max(zoomLevel, 0), d.maxZoom)
	return math.Ldexp(1, zoomLevel-d.maxZoom)
}

// FilenameToIndex implements Manifest. Names are compared in Unicode NFC, so
// a decomposed "mu\u0308nster.jpg" from a URL finds "münster.jpg".
func (d *Document) FilenameToIndex(name string) (int, bool) {
	i, ok := d.byName[norm.NFC.String(name)]
	return i, ok
}

// Filename returns the filename of page index, if the page has one.
func (d *Document) Filename(index int) (string, bool) {
	if index < 0 || index >= len(d.pages) || d.pages[index].Filename == "" {
		return "", false
	}
	return d.pages[index].Filename, true
}

// MaxSize returns the largest scaled page width and height at zoomLevel.
func (d *Document) MaxSize(zoomLevel int) (width, height int) {
	s := d.ScaleFactor(zoomLevel)
	for _, p := range d.pages {
		width = max(width, Scale(p.Width, s))
		height = max(height, Scale(p.Height, s))
	}
	return width, height
}

// Scale applies a scale factor to an intrinsic dimension, rounding to the
// nearest pixel.
func Scale(dim int, factor float64) int {
	return int(math.Round(float64(dim) * factor))
}

var _ Manifest = (*Document)(nil)
