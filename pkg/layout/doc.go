// Package layout computes page geometry for every view mode.
//
// [Compute] is a pure function: given the viewer settings, the page list of a
// document, the scale factor for the current zoom level and the viewport panel
// size, it returns a [Geometry] holding one [PageRect] per page plus the total
// content extents. The result is the single source of truth for where a page
// sits; the viewport package scrolls to it and the viewer package recomputes
// it whenever zoom, grid columns, view mode, manifest or panel size change.
//
// # Document and book modes
//
// Pages are stacked vertically with VerticalPadding above, between and below
// them, and centered horizontally within max(PanelWidth, ContentWidth):
//
//	ContentWidth  = widest page + 2*HorizontalPadding
//	ContentHeight = sum of page heights + (n+1)*VerticalPadding
//
// # Grid mode
//
// Pages fill rows of PagesPerRow fixed-width slots left to right, top to
// bottom. The slot width is derived from the panel width so that a full row
// fits without horizontal scrolling; pages wider than a slot shrink to fit
// while keeping their aspect ratio. Each row is as tall as its tallest page.
//
// An empty page list yields zero content extents and no rectangles.
package layout
