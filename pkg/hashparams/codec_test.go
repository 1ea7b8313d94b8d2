package hashparams

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/settings"
)

// testContext describes a 100-page document with zoom levels 0..5 whose
// pages are named bm_001.tif .. bm_100.tif.
func testContext() Context {
	return Context{
		PageCount:    100,
		MaxZoomLevel: 5,
		FilenameToIndex: func(name string) (int, bool) {
			var n int
			if _, err := fmt.Sscanf(name, "bm_%03d.tif", &n); err != nil || n < 1 || n > 100 {
				return 0, false
			}
			return n - 1, true
		},
		IndexToFilename: func(i int) (string, bool) {
			if i < 0 || i >= 100 {
				return "", false
			}
			return fmt.Sprintf("bm_%03d.tif", i+1), true
		},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		opts     Options
		check    func(t *testing.T, r Result)
	}{
		{
			name:     "grid view",
			fragment: "v=g",
			check: func(t *testing.T, r Result) {
				if !r.Settings.InGrid() {
					t.Error("InGrid() = false, want true")
				}
			},
		},
		{
			name:     "book view",
			fragment: "v=b",
			check: func(t *testing.T, r Result) {
				if !r.Settings.InBookLayout() {
					t.Error("InBookLayout() = false, want true")
				}
			},
		},
		{
			name:     "unknown view falls to document",
			fragment: "v=q",
			check: func(t *testing.T, r Result) {
				if r.Settings.ViewMode != settings.ModeDocument {
					t.Errorf("ViewMode = %v, want document", r.Settings.ViewMode)
				}
			},
		},
		{
			name:     "grid and fullscreen",
			fragment: "v=g&f=true",
			check: func(t *testing.T, r Result) {
				if !r.Settings.InGrid() || !r.Settings.InFullscreen {
					t.Errorf("got %+v, want grid and fullscreen", r.Settings)
				}
			},
		},
		{
			name:     "fullscreen requires literal true",
			fragment: "f=1",
			check: func(t *testing.T, r Result) {
				if r.Settings.InFullscreen {
					t.Error("InFullscreen = true, want false")
				}
			},
		},
		{
			name:     "valid zoom",
			fragment: "z=3",
			check: func(t *testing.T, r Result) {
				if r.Settings.ZoomLevel != 3 {
					t.Errorf("ZoomLevel = %d, want 3", r.Settings.ZoomLevel)
				}
			},
		},
		{
			name:     "zoom above max keeps default",
			fragment: "z=6",
			check: func(t *testing.T, r Result) {
				if r.Settings.ZoomLevel != 0 {
					t.Errorf("ZoomLevel = %d, want 0", r.Settings.ZoomLevel)
				}
				if len(r.Invalid) != 1 || r.Invalid[0].Key != KeyZoomLevel {
					t.Errorf("Invalid = %+v, want one zoom entry", r.Invalid)
				}
			},
		},
		{
			name:     "valid pages per row",
			fragment: "n=3",
			check: func(t *testing.T, r Result) {
				if r.Settings.PagesPerRow != 3 {
					t.Errorf("PagesPerRow = %d, want 3", r.Settings.PagesPerRow)
				}
			},
		},
		{
			name:     "pages per row below min keeps default max",
			fragment: "n=1",
			check: func(t *testing.T, r Result) {
				if r.Settings.PagesPerRow != settings.MaxPagesPerRow {
					t.Errorf("PagesPerRow = %d, want %d", r.Settings.PagesPerRow, settings.MaxPagesPerRow)
				}
			},
		},
		{
			name:     "valid page number",
			fragment: "p=6",
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 5 || !r.PageSpecified {
					t.Errorf("CurrentPageIndex = %d (specified %v), want 5", r.Settings.CurrentPageIndex, r.PageSpecified)
				}
			},
		},
		{
			name:     "last page number",
			fragment: "p=100&v=g",
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 99 || !r.Settings.InGrid() {
					t.Errorf("got %+v, want page 99 in grid", r.Settings)
				}
			},
		},
		{
			name:     "page number past end",
			fragment: "p=600",
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 0 || r.PageSpecified {
					t.Errorf("CurrentPageIndex = %d (specified %v), want 0", r.Settings.CurrentPageIndex, r.PageSpecified)
				}
			},
		},
		{
			name:     "page zero",
			fragment: "p=0",
			check: func(t *testing.T, r Result) {
				if r.PageSpecified {
					t.Error("PageSpecified = true, want false")
				}
			},
		},
		{
			name:     "filename ignored without option",
			fragment: "i=bm_006.tif",
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 0 {
					t.Errorf("CurrentPageIndex = %d, want 0", r.Settings.CurrentPageIndex)
				}
			},
		},
		{
			name:     "valid filename",
			fragment: "i=bm_006.tif",
			opts:     Options{EnableFilenameParam: true},
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 5 {
					t.Errorf("CurrentPageIndex = %d, want 5", r.Settings.CurrentPageIndex)
				}
			},
		},
		{
			name:     "unknown filename",
			fragment: "i=bm_000.tif",
			opts:     Options{EnableFilenameParam: true},
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 0 || r.PageSpecified {
					t.Errorf("CurrentPageIndex = %d, want 0", r.Settings.CurrentPageIndex)
				}
			},
		},
		{
			name:     "page number ignored with filename option",
			fragment: "p=6",
			opts:     Options{EnableFilenameParam: true},
			check: func(t *testing.T, r Result) {
				if r.Settings.CurrentPageIndex != 0 {
					t.Errorf("CurrentPageIndex = %d, want 0", r.Settings.CurrentPageIndex)
				}
			},
		},
		{
			name:     "offsets without page",
			fragment: "x=100&y=200",
			check: func(t *testing.T, r Result) {
				if r.PageSpecified {
					t.Error("PageSpecified = true, want false")
				}
				if !r.HasVerticalOffset || !r.HasHorizontalOffset {
					t.Error("offsets should still parse")
				}
			},
		},
		{
			name:     "negative offsets",
			fragment: "y=-600&x=-100&p=1",
			check: func(t *testing.T, r Result) {
				if r.Settings.VerticalOffset != 0 || r.Settings.HorizontalOffset != -100 {
					t.Errorf("offsets = (%d, %d), want (0, -100)", r.Settings.VerticalOffset, r.Settings.HorizontalOffset)
				}
				if r.VerticalOffset != -600 {
					t.Errorf("VerticalOffset = %d, want -600 as given", r.VerticalOffset)
				}
				if err := r.Settings.Validate(100, 5); err != nil {
					t.Errorf("Validate() = %v", err)
				}
			},
		},
		{
			name:     "non-integer offset",
			fragment: "y=abc",
			check: func(t *testing.T, r Result) {
				if r.HasVerticalOffset || r.Settings.VerticalOffset != 0 {
					t.Errorf("vertical offset should be ignored, got %d", r.Settings.VerticalOffset)
				}
			},
		},
		{
			name:     "suffix selects suffixed keys only",
			fragment: "vxyz=g&f=true",
			opts:     Options{Suffix: "xyz"},
			check: func(t *testing.T, r Result) {
				if !r.Settings.InGrid() {
					t.Error("should read properties with the suffix")
				}
				if r.Settings.InFullscreen {
					t.Error("should not read properties without it")
				}
			},
		},
		{
			name:     "suffixed keys ignored without suffix",
			fragment: "vxyz=g",
			check: func(t *testing.T, r Result) {
				if r.Settings.InGrid() {
					t.Error("InGrid() = true, want false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(tt.fragment, settings.Defaults(), tt.opts, testContext()))
		})
	}
}

func TestParseFieldsIndependent(t *testing.T) {
	r := Parse("z=9&n=0&p=1000&v=g&f=true&y=20", settings.Defaults(), Options{}, testContext())

	want := settings.Defaults()
	want.ViewMode = settings.ModeGrid
	want.InFullscreen = true
	want.VerticalOffset = 20

	if diff := cmp.Diff(want, r.Settings); diff != "" {
		t.Errorf("Settings mismatch (-want +got):\n%s", diff)
	}

	keys := make([]string, len(r.Invalid))
	for i, inv := range r.Invalid {
		keys[i] = inv.Key
		if inv.Err.Code != errors.ErrCodeInvalidHashValue {
			t.Errorf("Invalid[%d] code = %v, want %v", i, inv.Err.Code, errors.ErrCodeInvalidHashValue)
		}
	}
	if diff := cmp.Diff([]string{KeyZoomLevel, KeyPagesPerRow, KeyPageNumber}, keys); diff != "" {
		t.Errorf("Invalid keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeepsConfiguredDefault(t *testing.T) {
	base := settings.Defaults()
	base.ZoomLevel = 2
	base.PagesPerRow = 4

	r := Parse("z=-1&n=12", base, Options{}, testContext())
	if r.Settings.ZoomLevel != 2 {
		t.Errorf("ZoomLevel = %d, want configured default 2", r.Settings.ZoomLevel)
	}
	if r.Settings.PagesPerRow != 4 {
		t.Errorf("PagesPerRow = %d, want configured default 4", r.Settings.PagesPerRow)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := testContext()
	for _, opts := range []Options{{}, {Suffix: "a"}, {EnableFilenameParam: true}, {Suffix: "xyz", EnableFilenameParam: true}} {
		for _, mode := range settings.Modes {
			for _, fs := range []bool{false, true} {
				for z := 0; z <= ctx.MaxZoomLevel; z++ {
					for n := settings.MinPagesPerRow; n <= settings.MaxPagesPerRow; n++ {
						for _, page := range []int{0, 1, 49, 99} {
							s := settings.Settings{
								ZoomLevel:        z,
								PagesPerRow:      n,
								CurrentPageIndex: page,
								ViewMode:         mode,
								InFullscreen:     fs,
								VerticalOffset:   page * 7,
								HorizontalOffset: -page,
							}
							frag := Serialize(s, opts, ctx)
							got := Parse(frag, settings.Defaults(), opts, ctx)
							if got.Settings != s {
								t.Fatalf("Parse(Serialize(%+v)) = %+v (fragment %q, opts %+v)", s, got.Settings, frag, opts)
							}
							if len(got.Invalid) != 0 {
								t.Fatalf("round trip of %q reported invalid values: %+v", frag, got.Invalid)
							}
						}
					}
				}
			}
		}
	}
}

func TestSerialize(t *testing.T) {
	s := settings.Settings{
		ZoomLevel:        2,
		PagesPerRow:      5,
		CurrentPageIndex: 9,
		ViewMode:         settings.ModeBook,
		VerticalOffset:   120,
		HorizontalOffset: -30,
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "page number",
			want: "v=b&f=false&z=2&n=5&p=10&y=120&x=-30",
		},
		{
			name: "suffix",
			opts: Options{Suffix: "1"},
			want: "v1=b&f1=false&z1=2&n1=5&p1=10&y1=120&x1=-30",
		},
		{
			name: "filename",
			opts: Options{EnableFilenameParam: true},
			want: "v=b&f=false&z=2&n=5&i=bm_010.tif&y=120&x=-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(s, tt.opts, testContext()); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}
