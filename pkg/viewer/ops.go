package viewer

import (
	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewmode"
	"github.com/matzehuels/folioview/pkg/viewport"
)

// =============================================================================
// Zoom
// =============================================================================

// SetZoomLevel changes the zoom level, keeping the point under the viewport
// center in place.
func (m *Manager) SetZoomLevel(z int) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	if z < 0 || z > m.doc.MaxZoomLevel() {
		return errors.New(errors.ErrCodeInvalidInput, "zoom level %d not in [0, %d]", z, m.doc.MaxZoomLevel())
	}
	cur := m.settings.ZoomLevel
	if z == cur {
		return nil
	}
	prev := m.settings
	target := m.zoomTarget(cur, z)
	m.settings.ZoomLevel = z
	return m.commit(prev, target, false)
}

// ZoomIn raises the zoom level by one. At the maximum it does nothing.
func (m *Manager) ZoomIn() error {
	if err := m.requireReady(); err != nil {
		return err
	}
	if m.settings.ZoomLevel >= m.doc.MaxZoomLevel() {
		return nil
	}
	return m.SetZoomLevel(m.settings.ZoomLevel + 1)
}

// ZoomOut lowers the zoom level by one. At zero it does nothing.
func (m *Manager) ZoomOut() error {
	if err := m.requireReady(); err != nil {
		return err
	}
	if m.settings.ZoomLevel <= 0 {
		return nil
	}
	return m.SetZoomLevel(m.settings.ZoomLevel - 1)
}

// =============================================================================
// Layout controls
// =============================================================================

// SetPagesPerRow sets the grid column count. Outside grid mode the value is
// only remembered.
func (m *Manager) SetPagesPerRow(n int) error {
	if n < settings.MinPagesPerRow || n > settings.MaxPagesPerRow {
		return errors.New(errors.ErrCodeInvalidInput, "pages per row %d not in [%d, %d]",
			n, settings.MinPagesPerRow, settings.MaxPagesPerRow)
	}
	if n == m.settings.PagesPerRow {
		return nil
	}
	prev := m.settings
	m.settings.PagesPerRow = n
	if !m.ready {
		m.notifyDeferred(prev)
		return nil
	}
	target := m.currentTarget()
	if m.settings.InGrid() {
		target = m.pageTarget()
	}
	return m.commit(prev, target, false)
}

// SetViewMode switches the page arrangement. Zoom level, current page and
// pages per row are kept; the current page is scrolled to the viewport top.
func (m *Manager) SetViewMode(mode settings.ViewMode) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid view mode %d", int(mode))
	}
	prev := m.settings
	changed, err := m.machine.SetViewMode(mode)
	if err != nil || !changed {
		return err
	}
	if !m.ready {
		m.notifyDeferred(prev)
		return nil
	}
	return m.commit(prev, m.pageTarget(), false)
}

// EnterFullscreen switches the viewport to the display size.
func (m *Manager) EnterFullscreen() error {
	return m.fullscreen((*viewmode.Machine).EnterFullscreen)
}

// ExitFullscreen restores the panel size.
func (m *Manager) ExitFullscreen() error {
	return m.fullscreen((*viewmode.Machine).ExitFullscreen)
}

// ToggleFullscreen flips the fullscreen overlay.
func (m *Manager) ToggleFullscreen() error {
	return m.fullscreen((*viewmode.Machine).ToggleFullscreen)
}

func (m *Manager) fullscreen(transition func(*viewmode.Machine) bool) error {
	prev := m.settings
	if !transition(m.machine) {
		return nil
	}
	if !m.ready {
		m.notifyDeferred(prev)
		return nil
	}
	return m.commit(prev, m.currentTarget(), false)
}

// ResizePanel records a new viewport size for the current mode: the panel
// size normally, the display size in fullscreen.
func (m *Manager) ResizePanel(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "panel size %dx%d must be positive", width, height)
	}
	if m.settings.InFullscreen {
		m.display = size{width, height}
	} else {
		m.panel = size{width, height}
	}
	m.vp.SetPanelSize(width, height)
	if !m.ready {
		return nil
	}
	return m.commit(m.settings, m.currentTarget(), false)
}

// =============================================================================
// Navigation
// =============================================================================

// GotoPage scrolls page index to the viewport top.
func (m *Manager) GotoPage(index int) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	if index < 0 || index >= m.doc.PageCount() {
		return errors.New(errors.ErrCodePageIndexOutOfRange, "page index %d out of range [0, %d)", index, m.doc.PageCount())
	}
	prev := m.settings
	m.settings.CurrentPageIndex = index
	return m.commit(prev, m.pageTarget(), false)
}

// GotoPageByFilename is GotoPage for a page filename.
func (m *Manager) GotoPageByFilename(name string) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	i, ok := m.doc.FilenameToIndex(name)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no page named %q", name)
	}
	return m.GotoPage(i)
}

// ScrollTo applies a user scroll. The current page and offsets follow the
// page under the viewport center.
func (m *Manager) ScrollTo(pos viewport.ScrollPosition) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	prev := m.settings
	m.vp.Apply(pos, m.geom)
	m.syncAnchor()
	m.notify(prev, false)
	return nil
}

// ScrollBy is ScrollTo relative to the current position.
func (m *Manager) ScrollBy(dTop, dLeft int) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	pos := m.vp.Position()
	return m.ScrollTo(viewport.ScrollPosition{Top: pos.Top + dTop, Left: pos.Left + dLeft})
}

// =============================================================================
// Update
// =============================================================================

// Change lists the fields to set in one Update. Nil fields are kept.
type Change struct {
	ZoomLevel        *int
	PagesPerRow      *int
	PageIndex        *int
	ViewMode         *settings.ViewMode
	Fullscreen       *bool
	VerticalOffset   *int
	HorizontalOffset *int
}

// Ptr returns a pointer to v, for building a Change.
func Ptr[T any](v T) *T { return &v }

// Update validates every field of c and applies them together. If any field
// is invalid nothing is applied. With a page or offset the viewport scrolls
// there; otherwise a zoom change keeps the center point and a layout change
// aligns the current page with the viewport top.
func (m *Manager) Update(c Change) error {
	if err := m.requireReady(); err != nil {
		return err
	}

	next := m.settings
	setIf(&next.ZoomLevel, c.ZoomLevel)
	setIf(&next.PagesPerRow, c.PagesPerRow)
	setIf(&next.CurrentPageIndex, c.PageIndex)
	setIf(&next.ViewMode, c.ViewMode)
	setIf(&next.InFullscreen, c.Fullscreen)
	setIf(&next.VerticalOffset, c.VerticalOffset)
	setIf(&next.HorizontalOffset, c.HorizontalOffset)
	if err := next.Validate(m.doc.PageCount(), m.doc.MaxZoomLevel()); err != nil {
		return err
	}

	prev := m.settings
	var target *viewport.Target
	switch {
	case c.PageIndex != nil || c.VerticalOffset != nil || c.HorizontalOffset != nil:
		target = &viewport.Target{
			PageIndex:         next.CurrentPageIndex,
			VerticalOffset:    next.VerticalOffset,
			HorizontalOffset:  next.HorizontalOffset,
			HasVerticalOffset: c.VerticalOffset != nil,
		}
	case next.ZoomLevel != prev.ZoomLevel:
		target = m.zoomTarget(prev.ZoomLevel, next.ZoomLevel)
	case next.ViewMode != prev.ViewMode || (next.InGrid() && next.PagesPerRow != prev.PagesPerRow):
		target = &viewport.Target{PageIndex: next.CurrentPageIndex}
	default:
		target = m.currentTarget()
	}

	if _, err := m.machine.SetViewMode(next.ViewMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "apply view mode")
	}
	if next.InFullscreen {
		m.machine.EnterFullscreen()
	} else {
		m.machine.ExitFullscreen()
	}
	m.settings = next
	return m.commit(prev, target, false)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
