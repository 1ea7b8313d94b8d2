package viewport

import (
	"testing"

	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/layout"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
)

// fixture lays out five 1000x2000 pages in an 800x800 panel with 50px
// padding, so page tops are 50, 2100, 4150, ...
func fixture(t *testing.T) layout.Geometry {
	t.Helper()
	pages := make([]manifest.PageMetadata, 5)
	for i := range pages {
		pages[i] = manifest.PageMetadata{Index: i, Width: 1000, Height: 2000}
	}
	return layout.Compute(layout.Input{
		Settings:          settings.Defaults(),
		Pages:             pages,
		Scale:             1,
		PanelWidth:        800,
		PanelHeight:       800,
		HorizontalPadding: 50,
		VerticalPadding:   50,
	})
}

func TestScrollToPage(t *testing.T) {
	geom := fixture(t)
	// content 1100 wide, page left 50; centered left = 50 + (1000-800)/2 = 150

	tests := []struct {
		name   string
		target Target
		want   ScrollPosition
	}{
		{
			name:   "vertical offset centered",
			target: Target{PageIndex: 0, VerticalOffset: 600, HasVerticalOffset: true},
			want:   ScrollPosition{Top: 250, Left: 150},
		},
		{
			name:   "negative offset clamps to zero",
			target: Target{PageIndex: 0, VerticalOffset: -600, HasVerticalOffset: true},
			want:   ScrollPosition{Top: 0, Left: 150},
		},
		{
			name:   "no vertical offset aligns page top",
			target: Target{PageIndex: 1},
			want:   ScrollPosition{Top: 2100, Left: 150},
		},
		{
			name:   "horizontal offset is additive",
			target: Target{PageIndex: 1, HorizontalOffset: 100},
			want:   ScrollPosition{Top: 2100, Left: 250},
		},
		{
			name:   "horizontal offset clamps",
			target: Target{PageIndex: 1, HorizontalOffset: -1000},
			want:   ScrollPosition{Top: 2100, Left: 0},
		},
		{
			name:   "last page clamps to max top",
			target: Target{PageIndex: 4, VerticalOffset: 2000, HasVerticalOffset: true},
			want:   ScrollPosition{Top: 10300 - 800, Left: 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScrollToPage(tt.target, geom)
			if err != nil {
				t.Fatalf("ScrollToPage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ScrollToPage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScrollToPageOutOfRange(t *testing.T) {
	geom := fixture(t)
	for _, i := range []int{-1, 5} {
		_, err := ScrollToPage(Target{PageIndex: i}, geom)
		if !errors.Is(err, errors.ErrCodePageIndexOutOfRange) {
			t.Errorf("ScrollToPage(%d) error = %v, want %s", i, err, errors.ErrCodePageIndexOutOfRange)
		}
	}
	if _, err := ScrollToPage(Target{}, layout.Geometry{}); err == nil {
		t.Error("ScrollToPage on empty geometry should fail")
	}
}

func TestScrollToPageIdempotent(t *testing.T) {
	geom := fixture(t)
	target := Target{PageIndex: 2, VerticalOffset: 300, HorizontalOffset: 20, HasVerticalOffset: true}
	a, _ := ScrollToPage(target, geom)
	b, _ := ScrollToPage(target, geom)
	if a != b {
		t.Errorf("ScrollToPage not idempotent: %+v vs %+v", a, b)
	}
}

func TestControllerAnchorRoundTrip(t *testing.T) {
	geom := fixture(t)
	c := NewController(800, 800)

	target := Target{PageIndex: 2, VerticalOffset: 900, HorizontalOffset: -40, HasVerticalOffset: true}
	pos, err := ScrollToPage(target, geom)
	if err != nil {
		t.Fatal(err)
	}
	c.Apply(pos, geom)

	got, ok := c.Anchor(geom)
	if !ok {
		t.Fatal("Anchor() reported empty geometry")
	}
	if got != target {
		t.Errorf("Anchor() = %+v, want %+v", got, target)
	}
}

func TestAnchorInPadding(t *testing.T) {
	geom := fixture(t)
	short := geom
	short.PanelHeight = 40

	tests := []struct {
		name string
		geom layout.Geometry
		pos  ScrollPosition
		want Target
	}{
		{
			// center at 2075, between page 0 (bottom 2050) and page 1 (top 2100)
			name: "gap between pages anchors above",
			geom: geom,
			pos:  ScrollPosition{Top: 1675, Left: 150},
			want: Target{PageIndex: 0, VerticalOffset: 2025, HasVerticalOffset: true},
		},
		{
			name: "padding above first page",
			geom: short,
			pos:  ScrollPosition{Top: 0, Left: 150},
			want: Target{PageIndex: 0, VerticalOffset: -30, HasVerticalOffset: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.geom.PanelWidth, tt.geom.PanelHeight)
			c.Apply(tt.pos, tt.geom)
			got, ok := c.Anchor(tt.geom)
			if !ok {
				t.Fatal("Anchor() reported empty geometry")
			}
			if got != tt.want {
				t.Errorf("Anchor() = %+v, want %+v", got, tt.want)
			}
			if tt.want.VerticalOffset < 0 {
				return
			}
			back, err := ScrollToPage(got, tt.geom)
			if err != nil {
				t.Fatal(err)
			}
			if back != tt.pos {
				t.Errorf("ScrollToPage(Anchor()) = %+v, want %+v", back, tt.pos)
			}
		})
	}
}

func TestControllerScrollBy(t *testing.T) {
	geom := fixture(t)
	c := NewController(800, 800)

	if got := c.ScrollBy(-100, -100, geom); got != (ScrollPosition{}) {
		t.Errorf("ScrollBy past origin = %+v, want origin", got)
	}
	if got := c.ScrollBy(500, 1000, geom); got != (ScrollPosition{Top: 500, Left: 300}) {
		t.Errorf("ScrollBy = %+v, want {500 300}", got)
	}

	c.SetPanelSize(1100, 800)
	geom.PanelWidth = 1100
	if got := c.Clamp(geom); got.Left != 0 {
		t.Errorf("Clamp after widening panel: Left = %d, want 0", got.Left)
	}
	if w, h := c.PanelSize(); w != 1100 || h != 800 {
		t.Errorf("PanelSize() = %d, %d", w, h)
	}
}

func TestAnchorEmpty(t *testing.T) {
	if _, ok := NewController(100, 100).Anchor(layout.Geometry{PanelHeight: 100}); ok {
		t.Error("Anchor on empty geometry should report false")
	}
}

func TestLocate(t *testing.T) {
	geom := fixture(t)

	got, err := Locate(ScrollPosition{Top: 250, Left: 150}, 0, geom)
	if err != nil {
		t.Fatal(err)
	}
	want := Target{PageIndex: 0, VerticalOffset: 600, HasVerticalOffset: true}
	if got != want {
		t.Errorf("Locate() = %+v, want %+v", got, want)
	}

	if _, err := Locate(ScrollPosition{}, 9, geom); !errors.Is(err, errors.ErrCodePageIndexOutOfRange) {
		t.Errorf("Locate(9) error = %v", err)
	}
}
