// Package viewport turns logical page targets into scroll positions.
//
// [ScrollToPage] is the pure half: it resolves a page rectangle from a
// [layout.Geometry] and returns the scroll position that shows the target.
// [Controller] is the stateful half: it owns the current position and panel
// size, and applying a position is an explicit step separate from computing
// it.
package viewport

import (
	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/layout"
)

// ScrollPosition is a scroll offset into the laid-out content.
type ScrollPosition struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// Target is a page plus pixel offsets of the viewport center relative to the
// page's top-left corner.
type Target struct {
	PageIndex        int
	VerticalOffset   int
	HorizontalOffset int

	// HasVerticalOffset selects between centering VerticalOffset in the
	// viewport and aligning the page top with the viewport top.
	HasVerticalOffset bool
}

// ScrollToPage computes the scroll position showing t in geom.
//
// With a vertical offset the point VerticalOffset pixels below the page top
// lands in the vertical center of the panel; without one the page top is
// aligned with the panel top. The page is centered horizontally and
// HorizontalOffset is added to the centered position. Both coordinates are
// clamped to the scrollable range.
//
// It fails with PAGE_INDEX_OUT_OF_RANGE when geom has no rectangle for the
// page.
func ScrollToPage(t Target, geom layout.Geometry) (ScrollPosition, error) {
	r, ok := geom.Rect(t.PageIndex)
	if !ok {
		return ScrollPosition{}, errors.New(errors.ErrCodePageIndexOutOfRange,
			"page index %d out of range [0, %d)", t.PageIndex, len(geom.Pages))
	}

	top := r.Top
	if t.HasVerticalOffset {
		top = r.Top + t.VerticalOffset - geom.PanelHeight/2
	}
	left := centeredLeft(r, geom.PanelWidth) + t.HorizontalOffset

	return Clamp(ScrollPosition{Top: top, Left: left}, geom), nil
}

// Clamp bounds pos to [0, content - panel] on both axes.
func Clamp(pos ScrollPosition, geom layout.Geometry) ScrollPosition {
	maxTop, maxLeft := geom.MaxScroll()
	return ScrollPosition{
		Top:  min(max(pos.Top, 0), maxTop),
		Left: min(max(pos.Left, 0), maxLeft),
	}
}

func centeredLeft(r layout.PageRect, panelWidth int) int {
	return r.Left + (r.Width-panelWidth)/2
}

// Controller owns the scroll position and panel size of one viewport.
// It is not safe for concurrent use.
type Controller struct {
	pos    ScrollPosition
	width  int
	height int
}

// NewController returns a controller for a panel of the given size
// scrolled to the origin.
func NewController(width, height int) *Controller {
	return &Controller{width: max(width, 0), height: max(height, 0)}
}

// Position returns the current scroll position.
func (c *Controller) Position() ScrollPosition { return c.pos }

// PanelSize returns the current panel size.
func (c *Controller) PanelSize() (width, height int) { return c.width, c.height }

// SetPanelSize records a new panel size. The position is not re-clamped
// until the next Apply or Clamp, since the geometry depends on the size.
func (c *Controller) SetPanelSize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
}

// Apply clamps pos to geom and makes it current. It returns the applied
// position.
func (c *Controller) Apply(pos ScrollPosition, geom layout.Geometry) ScrollPosition {
	c.pos = Clamp(pos, geom)
	return c.pos
}

// ScrollBy moves the position by the given deltas.
func (c *Controller) ScrollBy(dTop, dLeft int, geom layout.Geometry) ScrollPosition {
	return c.Apply(ScrollPosition{Top: c.pos.Top + dTop, Left: c.pos.Left + dLeft}, geom)
}

// Clamp re-clamps the current position after geom changed.
func (c *Controller) Clamp(geom layout.Geometry) ScrollPosition {
	return c.Apply(c.pos, geom)
}

// Anchor returns the target that ScrollToPage would map back to the current
// position: the page under the viewport center and the center's offset from
// that page. A center in the padding above a page anchors to the page before
// it, so the vertical offset is never negative past the first page. It
// reports false for an empty geometry.
func (c *Controller) Anchor(geom layout.Geometry) (Target, bool) {
	i := geom.PageAt(c.pos.Top + geom.PanelHeight/2)
	if i < 0 {
		return Target{}, false
	}
	t, err := Locate(c.pos, i, geom)
	if err != nil {
		return Target{}, false
	}
	if t.VerticalOffset < 0 && i > 0 {
		if above, err := Locate(c.pos, i-1, geom); err == nil {
			t = above
		}
	}
	return t, true
}

// Locate is the inverse of ScrollToPage for a fixed page: it returns the
// offsets of the viewport center at pos relative to page pageIndex.
func Locate(pos ScrollPosition, pageIndex int, geom layout.Geometry) (Target, error) {
	r, ok := geom.Rect(pageIndex)
	if !ok {
		return Target{}, errors.New(errors.ErrCodePageIndexOutOfRange,
			"page index %d out of range [0, %d)", pageIndex, len(geom.Pages))
	}
	return Target{
		PageIndex:         pageIndex,
		VerticalOffset:    pos.Top + geom.PanelHeight/2 - r.Top,
		HorizontalOffset:  pos.Left - centeredLeft(r, geom.PanelWidth),
		HasVerticalOffset: true,
	}, nil
}
