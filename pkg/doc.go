// Package pkg provides the core libraries for folioview, the view-state engine
// of a paged document viewer.
//
// # Overview
//
// A viewer shows the pages of a scanned document in a scrollable panel. Its
// state (zoom level, view mode, fullscreen, current page and the position
// within that page) is mirrored in the URL fragment, so that a link such as
// #z=2&p=14&y=300 reopens the viewer where it was left. The pkg directory is
// organized into three areas:
//
//  1. Core - the view-state model and the algorithms over it
//     ([settings], [hashparams], [layout], [viewport], [viewmode], [viewer])
//  2. Documents - page metadata and how it is loaded ([manifest])
//  3. Infrastructure - caching, bookmarks, errors and hooks
//     ([cache], [bookmark], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The data flow through folioview:
//
//	URL fragment ──► [hashparams] Parse ──► Settings
//	                                           │
//	manifest ──► [layout] Compute ──► Geometry │
//	                                     │     ▼
//	                                [viewport] ScrollToPage ──► ScrollPosition
//
// [viewer.Manager] composes these steps, drives the [viewmode] state machine,
// and notifies subscribers after every change. Everything below the manager
// is pure: geometry and scroll positions are plain values computed from
// their inputs.
//
// # Quick Start
//
//	doc, _ := manifest.LoadFile("codex.json")
//	m, _ := viewer.New(viewer.Config{}, viewer.FragmentFunc(func() string {
//	    return "#v=g&n=4&p=14"
//	}))
//	m.Subscribe(func(e viewer.Event) {
//	    fmt.Println(e.Type, e.Settings.CurrentPageIndex)
//	})
//	_ = m.LoadManifest(doc)
//
//	_ = m.ZoomIn()
//	fmt.Println(m.Fragment()) // v=g&f=false&z=1&n=4&p=14&y=...&x=...
//
// # Package Organization
//
//   - [settings]: the ViewerSettings data model and its invariants
//   - [hashparams]: fragment parsing and serialization
//   - [layout]: page rectangles for document, book and grid modes
//   - [viewport]: scroll targets, clamping and the page anchor
//   - [viewmode]: the view mode and fullscreen state machine
//   - [viewer]: the composition root and its event stream
//   - [manifest]: page metadata, JSON/TOML decoding and remote fetching
//   - [cache]: file, Redis and no-op caches for fetched manifests
//   - [bookmark]: saved deep links in files or MongoDB
//
// [settings]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/settings
// [hashparams]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/hashparams
// [layout]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/viewport
// [viewmode]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/viewmode
// [viewer]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/viewer
// [viewer.Manager]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/viewer#Manager
// [manifest]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/manifest
// [cache]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/cache
// [bookmark]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/bookmark
// [errors]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/folioview/pkg/buildinfo
package pkg
