package viewer

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/hashparams"
	"github.com/matzehuels/folioview/pkg/layout"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/observability"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewmode"
	"github.com/matzehuels/folioview/pkg/viewport"
)

// FragmentSource returns the current URL fragment of the hosting page.
type FragmentSource interface {
	Fragment() string
}

// FragmentFunc adapts a function to FragmentSource.
type FragmentFunc func() string

// Fragment implements FragmentSource.
func (f FragmentFunc) Fragment() string { return f() }

type size struct{ w, h int }

// Manager is the view state of one viewer. It is not safe for concurrent
// use; callers serialize access the way a UI event loop does.
type Manager struct {
	cfg       Config
	logger    *log.Logger
	fragments FragmentSource
	opts      hashparams.Options

	settings settings.Settings
	machine  *viewmode.Machine
	vp       *viewport.Controller
	panel    size
	display  size

	doc     manifest.Manifest
	geom    layout.Geometry
	ready   bool
	pending *string
	invalid []hashparams.InvalidValue

	// fullscreenFlipped is set by the mode observer and consumed by notify.
	fullscreenFlipped bool

	subs   []subscription
	nextID int
}

// New creates a manager. fragments may be nil, in which case only
// ApplyHash feeds fragments in.
func New(cfg Config, fragments FragmentSource) (*Manager, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := settings.Defaults()
	s.ZoomLevel = cfg.ZoomLevel
	s.PagesPerRow = cfg.PagesPerRow
	s.ViewMode = cfg.ViewMode

	m := &Manager{
		cfg:       cfg,
		logger:    cfg.Logger,
		fragments: fragments,
		opts: hashparams.Options{
			Suffix:              cfg.HashParamSuffix,
			EnableFilenameParam: cfg.EnableFilenameParam,
		},
		settings: s,
		vp:       viewport.NewController(cfg.PanelWidth, cfg.PanelHeight),
		panel:    size{cfg.PanelWidth, cfg.PanelHeight},
		display:  size{cfg.DisplayWidth, cfg.DisplayHeight},
	}

	machine, err := viewmode.New(viewmode.FromSettings(s), modeObserver{m})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "view mode")
	}
	m.machine = machine
	return m, nil
}

// modeObserver keeps settings and panel size in step with the state machine.
type modeObserver struct{ m *Manager }

func (o modeObserver) ModeChanged(prev, next viewmode.State) {
	next.Apply(&o.m.settings)
	o.m.logger.Debug("view mode changed", "from", prev, "to", next)
}

func (o modeObserver) FullscreenChanged(prev, next viewmode.State) {
	next.Apply(&o.m.settings)
	o.m.fullscreenFlipped = true
	sz := o.m.activeSize()
	o.m.vp.SetPanelSize(sz.w, sz.h)
	o.m.logger.Debug("fullscreen changed", "from", prev, "to", next, "width", sz.w, "height", sz.h)
}

func (m *Manager) activeSize() size {
	if m.settings.InFullscreen {
		return m.display
	}
	return m.panel
}

// =============================================================================
// Accessors
// =============================================================================

// Settings returns a copy of the current settings.
func (m *Manager) Settings() settings.Settings { return m.settings }

// Ready reports whether a manifest has been loaded.
func (m *Manager) Ready() bool { return m.ready }

// Manifest returns the loaded manifest, or nil.
func (m *Manager) Manifest() manifest.Manifest { return m.doc }

// State returns the current view mode state.
func (m *Manager) State() viewmode.State { return m.machine.State() }

// Geometry returns the current layout.
func (m *Manager) Geometry() (layout.Geometry, error) {
	if err := m.requireReady(); err != nil {
		return layout.Geometry{}, err
	}
	return m.geom, nil
}

// Position returns the current scroll position.
func (m *Manager) Position() (viewport.ScrollPosition, error) {
	if err := m.requireReady(); err != nil {
		return viewport.ScrollPosition{}, err
	}
	return m.vp.Position(), nil
}

// VisiblePages returns the pages within margin pixels of the viewport.
func (m *Manager) VisiblePages(margin int) ([]int, error) {
	if err := m.requireReady(); err != nil {
		return nil, err
	}
	_, h := m.vp.PanelSize()
	return m.geom.Visible(m.vp.Position().Top, h, margin), nil
}

// Fragment serializes the current settings for the URL.
func (m *Manager) Fragment() string {
	return hashparams.Serialize(m.settings, m.opts, m.hashContext())
}

func (m *Manager) requireReady() error {
	if !m.ready {
		return errors.New(errors.ErrCodeManifestNotReady, "no manifest loaded")
	}
	return nil
}

func (m *Manager) hashContext() hashparams.Context {
	if m.doc == nil {
		return hashparams.Context{}
	}
	doc := m.doc
	return hashparams.Context{
		PageCount:       doc.PageCount(),
		MaxZoomLevel:    doc.MaxZoomLevel(),
		FilenameToIndex: doc.FilenameToIndex,
		IndexToFilename: func(i int) (string, bool) {
			if i < 0 || i >= doc.PageCount() {
				return "", false
			}
			name := doc.Page(i).Filename
			return name, name != ""
		},
	}
}

// =============================================================================
// Manifest and fragment
// =============================================================================

// LoadManifest installs doc. On the first load the deferred fragment (the
// last one passed to ApplyHash, or else the FragmentSource's) is applied
// and EventReady fires after the first layout and scroll. Later loads keep
// the current settings, clamped to the new document.
func (m *Manager) LoadManifest(doc manifest.Manifest) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest is nil")
	}

	first := !m.ready
	prev := m.settings
	m.doc = doc
	m.ready = true

	base := m.settings
	if base.ZoomLevel > doc.MaxZoomLevel() {
		m.logger.Debug("configured zoom exceeds manifest", "zoom", base.ZoomLevel, "max", doc.MaxZoomLevel())
		base.ZoomLevel = 0
	}
	if base.CurrentPageIndex >= doc.PageCount() {
		base.CurrentPageIndex = max(doc.PageCount()-1, 0)
	}

	if !first {
		m.settings = base
		return m.commit(prev, m.currentTarget(), false)
	}

	var fragment string
	switch {
	case m.pending != nil:
		fragment = *m.pending
	case m.fragments != nil:
		fragment = m.fragments.Fragment()
	}
	m.pending = nil

	m.logger.Debug("manifest loaded", "pages", doc.PageCount(), "max_zoom", doc.MaxZoomLevel())
	return m.applyFragment(fragment, base, prev, true)
}

// HashChanged re-reads the FragmentSource and applies it.
func (m *Manager) HashChanged() error {
	if m.fragments == nil {
		return nil
	}
	return m.ApplyHash(m.fragments.Fragment())
}

// ApplyHash applies a fragment. Invalid values are dropped one by one and
// leave their setting as it was. Before a manifest is loaded the fragment is
// recorded and applied by LoadManifest; ApplyHash then returns nil.
// A fragment equal to the current Fragment() is a no-op.
func (m *Manager) ApplyHash(fragment string) error {
	if !m.ready {
		m.pending = &fragment
		m.logger.Debug("deferring fragment until manifest is loaded", "fragment", fragment)
		return nil
	}
	if strings.TrimPrefix(fragment, "#") == m.Fragment() {
		return nil
	}
	return m.applyFragment(fragment, m.settings, m.settings, false)
}

func (m *Manager) applyFragment(fragment string, base, prev settings.Settings, first bool) error {
	res := hashparams.Parse(fragment, base, m.opts, m.hashContext())
	m.invalid = res.Invalid

	hooks := observability.Viewer()
	for _, iv := range res.Invalid {
		m.logger.Debug("ignoring invalid fragment value", "key", iv.Key, "value", iv.Value, "reason", iv.Err.Message)
		hooks.OnInvalidHashValue(iv.Key, iv.Value)
	}
	hooks.OnHashApplied(fragment, len(res.Invalid))

	next := res.Settings
	var target *viewport.Target
	switch {
	case res.PageSpecified:
		t := viewport.Target{PageIndex: next.CurrentPageIndex, HasVerticalOffset: res.HasVerticalOffset}
		if res.HasVerticalOffset {
			t.VerticalOffset = res.VerticalOffset
		}
		if res.HasHorizontalOffset {
			t.HorizontalOffset = next.HorizontalOffset
		}
		target = &t
	case first:
		// Without a page the first layout stays at the origin.
	case next.ZoomLevel != prev.ZoomLevel:
		target = m.zoomTarget(prev.ZoomLevel, next.ZoomLevel)
	case next.ViewMode != prev.ViewMode || (next.InGrid() && next.PagesPerRow != prev.PagesPerRow):
		target = m.pageTarget()
	default:
		target = m.currentTarget()
	}

	// Mode and overlay go through the machine so the observer resizes the
	// panel; it writes the same values into m.settings.
	m.settings = next
	m.settings.ViewMode, m.settings.InFullscreen = prev.ViewMode, prev.InFullscreen
	if _, err := m.machine.SetViewMode(next.ViewMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "apply view mode")
	}
	if next.InFullscreen {
		m.machine.EnterFullscreen()
	} else {
		m.machine.ExitFullscreen()
	}

	m.logger.Debug("applied fragment", "fragment", fragment, "invalid", len(res.Invalid), "page_specified", res.PageSpecified)
	return m.commit(prev, target, first)
}

// =============================================================================
// Commit
// =============================================================================

// commit lays out the document, scrolls to target, re-derives the offsets
// from the applied position and notifies listeners. A nil target keeps the
// current position and the current page.
func (m *Manager) commit(prev settings.Settings, target *viewport.Target, first bool) error {
	m.relayout()

	if target != nil && len(m.geom.Pages) > 0 {
		pos, err := viewport.ScrollToPage(*target, m.geom)
		if err != nil {
			return err
		}
		m.vp.Apply(pos, m.geom)
		m.syncTo(target.PageIndex)
	} else {
		m.vp.Clamp(m.geom)
		m.syncTo(m.settings.CurrentPageIndex)
	}

	m.notify(prev, first)
	return nil
}

func (m *Manager) relayout() {
	start := time.Now()
	w, h := m.vp.PanelSize()
	m.geom = layout.Compute(layout.Input{
		Settings:          m.settings,
		Pages:             m.doc.Pages(),
		Scale:             m.doc.ScaleFactor(m.settings.ZoomLevel),
		PanelWidth:        w,
		PanelHeight:       h,
		HorizontalPadding: m.cfg.HorizontalPadding,
		VerticalPadding:   m.cfg.VerticalPadding,
	})
	d := time.Since(start)
	observability.Viewer().OnLayout(m.settings.ViewMode.String(), len(m.geom.Pages), d)
	m.logger.Debug("layout", "mode", m.settings.ViewMode, "zoom", m.settings.ZoomLevel,
		"width", m.geom.ContentWidth, "height", m.geom.ContentHeight, "took", d)
}

// syncTo records the applied position relative to page. The page stays
// current even when the viewport center lies above it, so the vertical
// offset is clamped to zero there.
func (m *Manager) syncTo(page int) {
	t, err := viewport.Locate(m.vp.Position(), page, m.geom)
	if err != nil {
		return
	}
	m.setAnchor(t)
}

// syncAnchor records the applied position relative to the page under the
// viewport center.
func (m *Manager) syncAnchor() {
	t, ok := m.vp.Anchor(m.geom)
	if !ok {
		m.setAnchor(viewport.Target{})
		return
	}
	m.setAnchor(t)
}

func (m *Manager) setAnchor(t viewport.Target) {
	m.settings.CurrentPageIndex = t.PageIndex
	m.settings.VerticalOffset = max(t.VerticalOffset, 0)
	m.settings.HorizontalOffset = t.HorizontalOffset
}

func (m *Manager) notify(prev settings.Settings, first bool) {
	pos := m.vp.Position()
	observability.Viewer().OnScroll(pos.Top, pos.Left)

	var types []EventType
	if m.fullscreenFlipped {
		m.fullscreenFlipped = false
		types = append(types, EventFullscreenChanged)
	}
	if m.settings != prev {
		types = append(types, EventSettingsChanged)
	}
	types = append(types, EventViewportScrolled)
	if first {
		types = append(types, EventReady)
	}
	m.dispatch(types...)
}

// notifyDeferred is notify for changes made before a manifest is loaded,
// when there is nothing to scroll.
func (m *Manager) notifyDeferred(prev settings.Settings) {
	var types []EventType
	if m.fullscreenFlipped {
		m.fullscreenFlipped = false
		types = append(types, EventFullscreenChanged)
	}
	if m.settings != prev {
		types = append(types, EventSettingsChanged)
	}
	m.dispatch(types...)
}

// currentTarget keeps the point under the viewport center fixed.
func (m *Manager) currentTarget() *viewport.Target {
	return &viewport.Target{
		PageIndex:         m.settings.CurrentPageIndex,
		VerticalOffset:    m.settings.VerticalOffset,
		HorizontalOffset:  m.settings.HorizontalOffset,
		HasVerticalOffset: true,
	}
}

// pageTarget aligns the current page with the viewport top.
func (m *Manager) pageTarget() *viewport.Target {
	return &viewport.Target{PageIndex: m.settings.CurrentPageIndex}
}

// zoomTarget is currentTarget with offsets rescaled from one zoom level to
// another.
func (m *Manager) zoomTarget(from, to int) *viewport.Target {
	ratio := m.doc.ScaleFactor(to) / m.doc.ScaleFactor(from)
	t := m.currentTarget()
	t.VerticalOffset = int(math.Round(float64(t.VerticalOffset) * ratio))
	t.HorizontalOffset = int(math.Round(float64(t.HorizontalOffset) * ratio))
	return t
}
