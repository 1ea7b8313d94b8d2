package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
)

func pages(sizes ...[2]int) []manifest.PageMetadata {
	out := make([]manifest.PageMetadata, len(sizes))
	for i, s := range sizes {
		out[i] = manifest.PageMetadata{Index: i, Width: s[0], Height: s[1]}
	}
	return out
}

func TestComputeStack(t *testing.T) {
	for _, mode := range []settings.ViewMode{settings.ModeDocument, settings.ModeBook} {
		t.Run(mode.String(), func(t *testing.T) {
			s := settings.Defaults()
			s.ViewMode = mode
			g := Compute(Input{
				Settings:          s,
				Pages:             pages([2]int{400, 600}, [2]int{200, 300}),
				Scale:             0.5,
				PanelWidth:        500,
				PanelHeight:       400,
				HorizontalPadding: 10,
				VerticalPadding:   20,
			})

			want := Geometry{
				PanelWidth:    500,
				PanelHeight:   400,
				ContentWidth:  220,
				ContentHeight: 20 + 300 + 20 + 150 + 20,
				Pages: []PageRect{
					{PageIndex: 0, Top: 20, Left: 150, Width: 200, Height: 300},
					{PageIndex: 1, Top: 340, Left: 200, Width: 100, Height: 150},
				},
			}
			if diff := cmp.Diff(want, g); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeStackWiderThanPanel(t *testing.T) {
	g := Compute(Input{
		Settings:          settings.Defaults(),
		Pages:             pages([2]int{1000, 100}, [2]int{600, 100}),
		Scale:             1,
		PanelWidth:        500,
		PanelHeight:       400,
		HorizontalPadding: 10,
	})

	if g.ContentWidth != 1020 {
		t.Errorf("ContentWidth = %d, want 1020", g.ContentWidth)
	}
	if g.Pages[0].Left != 10 || g.Pages[1].Left != 210 {
		t.Errorf("lefts = %d, %d, want 10, 210", g.Pages[0].Left, g.Pages[1].Left)
	}
	if top, left := g.MaxScroll(); top != 0 || left != 520 {
		t.Errorf("MaxScroll() = %d, %d, want 0, 520", top, left)
	}
}

func TestComputeGrid(t *testing.T) {
	s := settings.Defaults()
	s.ViewMode = settings.ModeGrid
	s.PagesPerRow = 2

	g := Compute(Input{
		Settings:          s,
		Pages:             pages([2]int{100, 200}, [2]int{400, 400}, [2]int{100, 100}),
		Scale:             1,
		PanelWidth:        430,
		PanelHeight:       300,
		HorizontalPadding: 10,
		VerticalPadding:   10,
	})

	// slot = (430 - 3*10) / 2 = 200
	want := Geometry{
		PanelWidth:    430,
		PanelHeight:   300,
		ContentWidth:  430,
		ContentHeight: 10 + 200 + 10 + 100 + 10,
		Pages: []PageRect{
			{PageIndex: 0, Top: 10, Left: 60, Width: 100, Height: 200},
			{PageIndex: 1, Top: 10, Left: 220, Width: 200, Height: 200},
			{PageIndex: 2, Top: 220, Left: 60, Width: 100, Height: 100},
		},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, mode := range settings.Modes {
		s := settings.Defaults()
		s.ViewMode = mode
		g := Compute(Input{Settings: s, Scale: 1, PanelWidth: 800, PanelHeight: 600, VerticalPadding: 10})
		if g.ContentWidth != 0 || g.ContentHeight != 0 || len(g.Pages) != 0 {
			t.Errorf("%s: Compute(empty) = %+v, want zero extents", mode, g)
		}
		if g.PageAt(100) != -1 {
			t.Errorf("%s: PageAt on empty = %d, want -1", mode, g.PageAt(100))
		}
	}
}

func TestSlotWidth(t *testing.T) {
	tests := []struct {
		name              string
		panel, cols, hpad int
		want              int
	}{
		{name: "even split", panel: 430, cols: 2, hpad: 10, want: 200},
		{name: "eight columns", panel: 900, cols: 8, hpad: 10, want: 101},
		{name: "panel too narrow", panel: 50, cols: 8, hpad: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlotWidth(tt.panel, tt.cols, tt.hpad); got != tt.want {
				t.Errorf("SlotWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPageAt(t *testing.T) {
	g := Compute(Input{
		Settings:        settings.Defaults(),
		Pages:           pages([2]int{100, 100}, [2]int{100, 100}, [2]int{100, 100}),
		Scale:           1,
		PanelWidth:      200,
		PanelHeight:     150,
		VerticalPadding: 10,
	})
	// tops: 10, 120, 230; bottoms: 110, 220, 330

	tests := []struct {
		y    int
		want int
	}{
		{y: 0, want: 0},
		{y: 50, want: 0},
		{y: 110, want: 1},
		{y: 115, want: 1},
		{y: 229, want: 2},
		{y: 1000, want: 2},
	}

	for _, tt := range tests {
		if got := g.PageAt(tt.y); got != tt.want {
			t.Errorf("PageAt(%d) = %d, want %d", tt.y, got, tt.want)
		}
	}
}

func TestVisible(t *testing.T) {
	sizes := make([][2]int, 10)
	for i := range sizes {
		sizes[i] = [2]int{100, 100}
	}
	g := Compute(Input{
		Settings:        settings.Defaults(),
		Pages:           pages(sizes...),
		Scale:           1,
		PanelWidth:      200,
		PanelHeight:     150,
		VerticalPadding: 10,
	})

	tests := []struct {
		name                string
		top, height, margin int
		want                []int
	}{
		{name: "first screen", top: 0, height: 150, want: []int{0, 1}},
		{name: "with margin", top: 0, height: 150, margin: 100, want: []int{0, 1, 2}},
		{name: "middle", top: 500, height: 150, want: []int{4, 5}},
		{name: "past end", top: 5000, height: 150, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, g.Visible(tt.top, tt.height, tt.margin)); diff != "" {
				t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRect(t *testing.T) {
	g := Compute(Input{Settings: settings.Defaults(), Pages: pages([2]int{10, 10}), Scale: 1})
	if _, ok := g.Rect(0); !ok {
		t.Error("Rect(0) missing")
	}
	for _, i := range []int{-1, 1} {
		if _, ok := g.Rect(i); ok {
			t.Errorf("Rect(%d) should be absent", i)
		}
	}
}
