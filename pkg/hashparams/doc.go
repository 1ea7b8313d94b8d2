// Package hashparams translates between a URL hash fragment and viewer
// settings.
//
// A fragment is a flat list of short keys:
//
//	v  view mode: "g" grid, "b" book, anything else document
//	f  fullscreen: "true" enables it
//	z  zoom level, 0..maxZoomLevel
//	n  pages per row, 2..8
//	p  1-based page number (when filename parameters are disabled)
//	i  page filename (when filename parameters are enabled)
//	y  vertical offset of the viewport center within the page, in pixels
//	x  horizontal offset of the viewport center within the page, in pixels
//
// Every key may carry a per-instance suffix ("vxyz=g" for suffix "xyz") so
// several viewers can share one URL. With a suffix configured the bare keys
// are ignored, and without one the suffixed keys are ignored.
//
// Each key is validated on its own. A value that fails validation is dropped
// and its field keeps the value it had before parsing; it is never clamped to
// the nearest legal value, and it never affects any other field:
//
//	res := hashparams.Parse("z=6&v=g", settings.Defaults(), opts, ctx) // max zoom 5
//	res.Settings.ZoomLevel // 0, the default
//	res.Settings.ViewMode  // settings.ModeGrid
//
// [Serialize] emits every key, so Parse(Serialize(s)) reproduces s.
package hashparams
