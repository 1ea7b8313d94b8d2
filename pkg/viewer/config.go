package viewer

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/settings"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPanelWidth is the viewport width in pixels.
	DefaultPanelWidth = 800

	// DefaultPanelHeight is the viewport height in pixels.
	DefaultPanelHeight = 700

	// DefaultHorizontalPadding is the space left and right of pages.
	DefaultHorizontalPadding = 45

	// DefaultVerticalPadding is the space above, between and below pages.
	DefaultVerticalPadding = 15
)

// =============================================================================
// Config
// =============================================================================

// Config is read once by New.
type Config struct {
	// Initial settings, used wherever the fragment does not say otherwise.
	ZoomLevel   int               `json:"zoom_level"`
	PagesPerRow int               `json:"pages_per_row,omitempty"`
	ViewMode    settings.ViewMode `json:"view_mode"`

	// EnableFilenameParam links pages by filename ("i") instead of number ("p").
	EnableFilenameParam bool `json:"enable_filename_param,omitempty"`
	// HashParamSuffix namespaces this viewer's fragment keys.
	HashParamSuffix string `json:"hash_param_suffix,omitempty"`

	// PanelWidth and PanelHeight size the viewport in normal mode;
	// DisplayWidth and DisplayHeight size it in fullscreen and default to
	// the panel size.
	PanelWidth    int `json:"panel_width,omitempty"`
	PanelHeight   int `json:"panel_height,omitempty"`
	DisplayWidth  int `json:"display_width,omitempty"`
	DisplayHeight int `json:"display_height,omitempty"`

	HorizontalPadding int `json:"horizontal_padding,omitempty"`
	VerticalPadding   int `json:"vertical_padding,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero fields. ZoomLevel and ViewMode are left alone since
// their zero values are meaningful.
func (c *Config) SetDefaults() {
	if c.PagesPerRow == 0 {
		c.PagesPerRow = settings.MaxPagesPerRow
	}
	if c.PanelWidth == 0 {
		c.PanelWidth = DefaultPanelWidth
	}
	if c.PanelHeight == 0 {
		c.PanelHeight = DefaultPanelHeight
	}
	if c.DisplayWidth == 0 {
		c.DisplayWidth = c.PanelWidth
	}
	if c.DisplayHeight == 0 {
		c.DisplayHeight = c.PanelHeight
	}
	if c.HorizontalPadding == 0 {
		c.HorizontalPadding = DefaultHorizontalPadding
	}
	if c.VerticalPadding == 0 {
		c.VerticalPadding = DefaultVerticalPadding
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks c after SetDefaults. The zoom level is checked against the
// manifest on load, not here.
func (c *Config) Validate() error {
	if c.ZoomLevel < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "zoom_level %d is negative", c.ZoomLevel)
	}
	if c.PagesPerRow < settings.MinPagesPerRow || c.PagesPerRow > settings.MaxPagesPerRow {
		return errors.New(errors.ErrCodeInvalidConfig, "pages_per_row %d not in [%d, %d]",
			c.PagesPerRow, settings.MinPagesPerRow, settings.MaxPagesPerRow)
	}
	if !c.ViewMode.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid view_mode %d", int(c.ViewMode))
	}
	if c.PanelWidth <= 0 || c.PanelHeight <= 0 || c.DisplayWidth <= 0 || c.DisplayHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "panel and display sizes must be positive")
	}
	if c.HorizontalPadding < 0 || c.VerticalPadding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative")
	}
	if strings.ContainsAny(c.HashParamSuffix, "&=#") {
		return errors.New(errors.ErrCodeInvalidConfig, "hash_param_suffix %q contains a fragment separator", c.HashParamSuffix)
	}
	return nil
}
