// Package observability lets callers instrument folioview without the
// libraries depending on a metrics or tracing backend.
//
// Three hook sets cover the instrumented code paths: [ViewerHooks] for the
// view-state core, [CacheHooks] for manifest cache lookups and [HTTPHooks]
// for manifest downloads. Each starts out as a no-op. A program installs its
// own implementation once at startup, and library code fetches the current
// one at the call site:
//
//	observability.SetViewerHooks(promViewerHooks{})
//	...
//	observability.Viewer().OnLayout(mode, pageCount, took)
//
// Viewer hooks take no context: the viewer core runs synchronously on the
// caller's event loop and never blocks.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Hook Sets
// =============================================================================

// ViewerHooks receives events from the view-state core.
type ViewerHooks interface {
	// OnHashApplied reports a fragment applied to a viewer and how many of
	// its values were dropped.
	OnHashApplied(fragment string, invalid int)

	// OnInvalidHashValue reports one dropped fragment value.
	OnInvalidHashValue(key, value string)

	OnLayout(mode string, pageCount int, took time.Duration)
	OnScroll(top, left int)
}

// CacheHooks receives manifest cache lookups. keyType names the kind of
// entry, currently always "manifest".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing manifest requests. OnError is called instead
// of OnResponse when no response arrived.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, status int, took time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopViewerHooks ignores every event.
type NoopViewerHooks struct{}

func (NoopViewerHooks) OnHashApplied(string, int)           {}
func (NoopViewerHooks) OnInvalidHashValue(string, string)   {}
func (NoopViewerHooks) OnLayout(string, int, time.Duration) {}
func (NoopViewerHooks) OnScroll(int, int)                   {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the installed implementation of one hook set.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	s := &slot[T]{noop: noop}
	s.reset()
	return s
}

func (s *slot[T]) get() T { return *s.p.Load() }

func (s *slot[T]) set(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.set(s.noop) }

var (
	viewerSlot = newSlot[ViewerHooks](NoopViewerHooks{})
	cacheSlot  = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot   = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetViewerHooks installs h. A nil h is ignored.
func SetViewerHooks(h ViewerHooks) {
	if h != nil {
		viewerSlot.set(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// Viewer returns the installed viewer hooks.
func Viewer() ViewerHooks { return viewerSlot.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset reinstalls the no-op hooks, for tests.
func Reset() {
	viewerSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
