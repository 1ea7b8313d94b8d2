package layout

import (
	"sort"

	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
)

// Input is everything Compute needs.
type Input struct {
	Settings settings.Settings
	Pages    []manifest.PageMetadata

	// Scale is the manifest scale factor at Settings.ZoomLevel.
	Scale float64

	PanelWidth        int
	PanelHeight       int
	HorizontalPadding int
	VerticalPadding   int
}

// PageRect is the position and scaled size of one page in content space.
type PageRect struct {
	PageIndex int `json:"page_index"`
	Top       int `json:"top"`
	Left      int `json:"left"`
	Width     int `json:"width"`
	Height    int `json:"height"`
}

// Bottom returns the first row below the page.
func (r PageRect) Bottom() int { return r.Top + r.Height }

// Right returns the first column right of the page.
func (r PageRect) Right() int { return r.Left + r.Width }

// CenterX returns the horizontal center of the page.
func (r PageRect) CenterX() int { return r.Left + r.Width/2 }

// CenterY returns the vertical center of the page.
func (r PageRect) CenterY() int { return r.Top + r.Height/2 }

// Geometry is the laid-out document for one set of inputs.
type Geometry struct {
	PanelWidth    int        `json:"panel_width"`
	PanelHeight   int        `json:"panel_height"`
	ContentWidth  int        `json:"content_width"`
	ContentHeight int        `json:"content_height"`
	Pages         []PageRect `json:"pages"`
}

// Compute lays out in.Pages for in.Settings.ViewMode. It never fails.
func Compute(in Input) Geometry {
	g := Geometry{PanelWidth: in.PanelWidth, PanelHeight: in.PanelHeight}
	if len(in.Pages) == 0 {
		return g
	}
	if in.Settings.InGrid() {
		computeGrid(&g, in)
	} else {
		computeStack(&g, in)
	}
	return g
}

func computeStack(g *Geometry, in Input) {
	g.Pages = make([]PageRect, len(in.Pages))

	maxWidth := 0
	top := in.VerticalPadding
	for i, p := range in.Pages {
		w := manifest.Scale(p.Width, in.Scale)
		h := manifest.Scale(p.Height, in.Scale)
		g.Pages[i] = PageRect{PageIndex: i, Top: top, Width: w, Height: h}
		maxWidth = max(maxWidth, w)
		top += h + in.VerticalPadding
	}

	g.ContentWidth = maxWidth + 2*in.HorizontalPadding
	g.ContentHeight = top

	span := max(in.PanelWidth, g.ContentWidth)
	for i := range g.Pages {
		g.Pages[i].Left = (span - g.Pages[i].Width) / 2
	}
}

func computeGrid(g *Geometry, in Input) {
	cols := min(max(in.Settings.PagesPerRow, settings.MinPagesPerRow), settings.MaxPagesPerRow)
	hpad, vpad := in.HorizontalPadding, in.VerticalPadding
	slot := SlotWidth(in.PanelWidth, cols, hpad)

	g.Pages = make([]PageRect, len(in.Pages))
	top := vpad
	for start := 0; start < len(in.Pages); start += cols {
		end := min(start+cols, len(in.Pages))
		rowHeight := 0
		for i := start; i < end; i++ {
			w, h := fitToSlot(in.Pages[i], in.Scale, slot)
			col := i - start
			g.Pages[i] = PageRect{
				PageIndex: i,
				Top:       top,
				Left:      hpad + col*(slot+hpad) + (slot-w)/2,
				Width:     w,
				Height:    h,
			}
			rowHeight = max(rowHeight, h)
		}
		top += rowHeight + vpad
	}

	g.ContentWidth = max(in.PanelWidth, cols*slot+(cols+1)*hpad)
	g.ContentHeight = top
}

// SlotWidth returns the grid column width for a panel. It is at least 1.
func SlotWidth(panelWidth, pagesPerRow, horizontalPadding int) int {
	if pagesPerRow <= 0 {
		return max(panelWidth, 1)
	}
	return max((panelWidth-(pagesPerRow+1)*horizontalPadding)/pagesPerRow, 1)
}

func fitToSlot(p manifest.PageMetadata, scale float64, slot int) (w, h int) {
	w = manifest.Scale(p.Width, scale)
	h = manifest.Scale(p.Height, scale)
	if w > slot {
		h = max(h*slot/w, 1)
		w = slot
	}
	return max(w, 1), max(h, 1)
}

// Rect returns the rectangle of page index.
func (g Geometry) Rect(index int) (PageRect, bool) {
	if index < 0 || index >= len(g.Pages) {
		return PageRect{}, false
	}
	return g.Pages[index], true
}

// MaxScroll returns the largest valid scroll position.
func (g Geometry) MaxScroll() (top, left int) {
	return max(g.ContentHeight-g.PanelHeight, 0), max(g.ContentWidth-g.PanelWidth, 0)
}

// PageAt returns the page whose row covers content row y. Points in the
// padding between rows resolve to the following page; points past the last
// page resolve to the last page. It returns -1 for an empty geometry.
func (g Geometry) PageAt(y int) int {
	if len(g.Pages) == 0 {
		return -1
	}
	// Rects are ordered by Top, so the first page whose bottom lies below y
	// is the one covering it or the next one down.
	i := sort.Search(len(g.Pages), func(i int) bool {
		return g.rowBottom(i) > y
	})
	if i == len(g.Pages) {
		return len(g.Pages) - 1
	}
	return i
}

// rowBottom is the bottom of the tallest page sharing a row with page i, so
// that the search predicate stays monotonic in grid mode.
func (g Geometry) rowBottom(i int) int {
	b := g.Pages[i].Bottom()
	for j := i + 1; j < len(g.Pages) && g.Pages[j].Top == g.Pages[i].Top; j++ {
		b = max(b, g.Pages[j].Bottom())
	}
	for j := i - 1; j >= 0 && g.Pages[j].Top == g.Pages[i].Top; j-- {
		b = max(b, g.Pages[j].Bottom())
	}
	return b
}

// Visible returns the indices of pages intersecting the band
// [top-margin, top+height+margin), in index order. Only these pages need to be
// materialized.
func (g Geometry) Visible(top, height, margin int) []int {
	lo, hi := top-margin, top+height+margin
	var out []int
	for _, r := range g.Pages {
		if r.Top >= hi {
			break
		}
		if r.Bottom() > lo {
			out = append(out, r.PageIndex)
		}
	}
	return out
}
