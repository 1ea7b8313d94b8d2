// Package settings defines the viewer settings object shared by every part of
// the view-state core.
//
// A [Settings] value describes where the reader is in a document and how the
// document is laid out: zoom level, grid column count, current page, view mode,
// fullscreen flag and the pixel offsets of the viewport center relative to the
// current page. Exactly one mutable instance exists per viewer; it is owned by
// the viewer package and handed out to everything else by value.
package settings

import (
	"fmt"
	"strings"

	"github.com/matzehuels/folioview/pkg/errors"
)

// Grid column bounds.
const (
	MinPagesPerRow = 2
	MaxPagesPerRow = 8
)

// ViewMode selects the page arrangement.
type ViewMode int

const (
	// ModeDocument stacks pages vertically. It is the zero value.
	ModeDocument ViewMode = iota
	// ModeBook stacks pages vertically with book-style paging.
	ModeBook
	// ModeGrid arranges pages in rows of PagesPerRow columns.
	ModeGrid
)

// Modes lists every view mode in declaration order.
var Modes = []ViewMode{ModeDocument, ModeBook, ModeGrid}

// String returns the lowercase mode name.
func (m ViewMode) String() string {
	switch m {
	case ModeDocument:
		return "document"
	case ModeBook:
		return "book"
	case ModeGrid:
		return "grid"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// Valid reports whether m is one of the declared modes.
func (m ViewMode) Valid() bool {
	return m >= ModeDocument && m <= ModeGrid
}

// ParseViewMode accepts a mode name ("document", "book", "grid") or its
// one-letter abbreviation ("d", "b", "g"), case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document", "d", "":
		return ModeDocument, nil
	case "book", "b":
		return ModeBook, nil
	case "grid", "g":
		return ModeGrid, nil
	}
	return ModeDocument, errors.New(errors.ErrCodeInvalidInput, "invalid view mode: %q (must be one of: document, book, grid)", s)
}

// MarshalText encodes the mode by name so settings read naturally in JSON.
func (m ViewMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid view mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *ViewMode) UnmarshalText(b []byte) error {
	v, err := ParseViewMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Settings is the complete view state of one viewer instance.
type Settings struct {
	ZoomLevel        int      `json:"zoom_level"`
	PagesPerRow      int      `json:"pages_per_row"`
	CurrentPageIndex int      `json:"current_page_index"`
	ViewMode         ViewMode `json:"view_mode"`
	InFullscreen     bool     `json:"in_fullscreen"`

	// VerticalOffset and HorizontalOffset locate the viewport center relative
	// to the top-left corner of the current page, in pixels at ZoomLevel.
	VerticalOffset   int `json:"vertical_offset"`
	HorizontalOffset int `json:"horizontal_offset"`
}

// Defaults returns the settings a viewer starts from when nothing is configured.
func Defaults() Settings {
	return Settings{
		ZoomLevel:   0,
		PagesPerRow: MaxPagesPerRow,
		ViewMode:    ModeDocument,
	}
}

// InGrid reports whether the grid layout is active.
func (s Settings) InGrid() bool { return s.ViewMode == ModeGrid }

// InBookLayout reports whether the book layout is active.
func (s Settings) InBookLayout() bool { return s.ViewMode == ModeBook }

// Validate checks every settings invariant against a document with pageCount
// pages and zoom levels 0..maxZoom. An empty document accepts page index 0.
func (s Settings) Validate(pageCount, maxZoom int) error {
	if s.ZoomLevel < 0 || s.ZoomLevel > maxZoom {
		return errors.New(errors.ErrCodeInvalidInput, "zoom level %d out of range [0, %d]", s.ZoomLevel, maxZoom)
	}
	if s.PagesPerRow < MinPagesPerRow || s.PagesPerRow > MaxPagesPerRow {
		return errors.New(errors.ErrCodeInvalidInput, "pages per row %d out of range [%d, %d]", s.PagesPerRow, MinPagesPerRow, MaxPagesPerRow)
	}
	if s.CurrentPageIndex < 0 || (pageCount > 0 && s.CurrentPageIndex >= pageCount) || (pageCount == 0 && s.CurrentPageIndex != 0) {
		return errors.New(errors.ErrCodeInvalidInput, "page index %d out of range [0, %d)", s.CurrentPageIndex, pageCount)
	}
	if !s.ViewMode.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid view mode: %d", int(s.ViewMode))
	}
	if s.VerticalOffset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "vertical offset %d is negative", s.VerticalOffset)
	}
	return nil
}
