package settings

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/folioview/pkg/errors"
)

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ViewMode
		wantErr bool
	}{
		{in: "document", want: ModeDocument},
		{in: "d", want: ModeDocument},
		{in: "", want: ModeDocument},
		{in: "Book", want: ModeBook},
		{in: "b", want: ModeBook},
		{in: "grid", want: ModeGrid},
		{in: " G ", want: ModeGrid},
		{in: "fullscreen", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseViewMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseViewMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseViewMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestViewModeJSON(t *testing.T) {
	s := Defaults()
	s.ViewMode = ModeGrid

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Settings
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != s {
		t.Errorf("decoded = %+v, want %+v", got, s)
	}
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.PagesPerRow != MaxPagesPerRow {
		t.Errorf("PagesPerRow = %d, want %d", s.PagesPerRow, MaxPagesPerRow)
	}
	if s.InGrid() || s.InBookLayout() || s.InFullscreen {
		t.Errorf("Defaults() should be a non-fullscreen document view, got %+v", s)
	}
	if err := s.Validate(1, 0); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "max zoom", mutate: func(s *Settings) { s.ZoomLevel = 5 }},
		{name: "zoom too high", mutate: func(s *Settings) { s.ZoomLevel = 6 }, wantErr: true},
		{name: "negative zoom", mutate: func(s *Settings) { s.ZoomLevel = -1 }, wantErr: true},
		{name: "min pages per row", mutate: func(s *Settings) { s.PagesPerRow = MinPagesPerRow }},
		{name: "pages per row too low", mutate: func(s *Settings) { s.PagesPerRow = 1 }, wantErr: true},
		{name: "pages per row too high", mutate: func(s *Settings) { s.PagesPerRow = 9 }, wantErr: true},
		{name: "last page", mutate: func(s *Settings) { s.CurrentPageIndex = 99 }},
		{name: "page past end", mutate: func(s *Settings) { s.CurrentPageIndex = 100 }, wantErr: true},
		{name: "bad mode", mutate: func(s *Settings) { s.ViewMode = ViewMode(7) }, wantErr: true},
		{name: "negative vertical offset", mutate: func(s *Settings) { s.VerticalOffset = -1 }, wantErr: true},
		{name: "negative horizontal offset", mutate: func(s *Settings) { s.HorizontalOffset = -40 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate(100, 5)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
