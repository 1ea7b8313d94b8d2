// Package viewer owns the view state of one document viewer.
//
// A [Manager] holds the single mutable [settings.Settings] of a viewer and
// keeps it consistent across three sources of change: user interaction
// ([Manager.ScrollTo], zoom and mode controls), programmatic calls
// ([Manager.Update], [Manager.GotoPage], ...) and the URL fragment
// ([Manager.HashChanged], [Manager.ApplyHash]).
//
// Every operation runs to completion synchronously. All fields touched by one
// operation are validated and applied together, then the layout is recomputed,
// the viewport is scrolled and listeners are notified, so a listener never
// sees a half-applied update.
//
// # Lifecycle
//
// A Manager starts from its [Config]. Until [Manager.LoadManifest] is called,
// geometry-dependent calls fail with MANIFEST_NOT_READY and fragments are
// recorded rather than applied. Loading the manifest applies the deferred
// fragment, lays out the document, scrolls to the requested page and fires
// [EventReady] exactly once.
//
// # Events
//
// Listeners registered with [Manager.Subscribe] are called in registration
// order. Within one operation the order is [EventFullscreenChanged] (if the
// overlay flipped), [EventSettingsChanged] (if settings differ),
// [EventViewportScrolled] (always after a scroll) and finally [EventReady] on
// the first load.
package viewer
