package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/folioview/pkg/bookmark"
	"github.com/matzehuels/folioview/pkg/layout"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// testManifest has 10 pages of 2000x3000 at zoom 2, named p001.jpg to p010.jpg.
func testManifest(t *testing.T) *manifest.Document {
	t.Helper()
	pages := make([]manifest.PageMetadata, 10)
	for i := range pages {
		pages[i] = manifest.PageMetadata{Width: 2000, Height: 3000, Filename: fmt.Sprintf("p%03d.jpg", i+1)}
	}
	doc, err := manifest.New("Test Codex", 2, pages)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// setup writes a manifest and a config file into a temp dir and returns
// their paths.
func setup(t *testing.T) (manifestPath, configPath string) {
	t.Helper()
	dir := t.TempDir()

	manifestPath = filepath.Join(dir, "codex.json")
	f, err := os.Create(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := manifest.Encode(f, testManifest(t)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	configPath = filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf(`
[cache]
backend = "none"

[bookmarks]
backend = "file"
dir = %q
`, filepath.Join(dir, "bookmarks"))
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifestPath, configPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveJSON(t *testing.T) {
	mf, cfg := setup(t)
	out, err := runCLI(t, "--config", cfg, "resolve", mf, "#v=g&n=4&z=1&p=3", "--json")
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}

	var snap viewer.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	want := settings.Settings{ZoomLevel: 1, PagesPerRow: 4, CurrentPageIndex: 2, ViewMode: settings.ModeGrid}
	got := snap.Settings
	got.VerticalOffset, got.HorizontalOffset = 0, 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if snap.State != "grid" {
		t.Errorf("State = %q, want grid", snap.State)
	}
	if len(snap.Geometry.Pages) != 10 {
		t.Errorf("len(Geometry.Pages) = %d, want 10", len(snap.Geometry.Pages))
	}
	if len(snap.Invalid) != 0 {
		t.Errorf("Invalid = %v, want none", snap.Invalid)
	}
}

func TestResolveSuggestsFilename(t *testing.T) {
	mf, cfg := setup(t)
	out, err := runCLI(t, "--config", cfg, "resolve", mf, "i=p007.jgp", "--filenames")
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
	for _, want := range []string{"Test Codex", "ignored i=p007.jgp", "did you mean p007.jpg?", "1 of 10 (p001.jpg)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolvePanelFlag(t *testing.T) {
	mf, cfg := setup(t)
	out, err := runCLI(t, "--config", cfg, "resolve", mf, "--panel", "640x480", "--json")
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
	var snap viewer.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Geometry.PanelWidth != 640 || snap.Geometry.PanelHeight != 480 {
		t.Errorf("panel = %dx%d, want 640x480", snap.Geometry.PanelWidth, snap.Geometry.PanelHeight)
	}

	if _, err := runCLI(t, "--config", cfg, "resolve", mf, "--panel", "wide"); err == nil {
		t.Error("resolve --panel wide succeeded, want error")
	}
}

func TestResolveMissingManifest(t *testing.T) {
	_, cfg := setup(t)
	if _, err := runCLI(t, "--config", cfg, "resolve", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("resolve of a missing manifest succeeded, want error")
	}
}

func TestLayoutJSON(t *testing.T) {
	mf, cfg := setup(t)

	tests := []struct {
		name string
		args []string
		want func(int) bool
	}{
		{"all pages", []string{"--all"}, func(n int) bool { return n == 10 }},
		{"visible pages", nil, func(n int) bool { return n > 0 && n < 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "layout", mf, "z=2", "--json"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("layout: %v\n%s", err, out)
			}
			var rects []layout.PageRect
			if err := json.Unmarshal([]byte(out), &rects); err != nil {
				t.Fatalf("decode: %v\n%s", err, out)
			}
			if !tt.want(len(rects)) {
				t.Errorf("got %d rects", len(rects))
			}
			for i := 1; i < len(rects); i++ {
				if rects[i].Top <= rects[i-1].Top {
					t.Errorf("rects not ordered by top: %v", rects)
				}
			}
		})
	}
}

func TestLayoutTable(t *testing.T) {
	mf, cfg := setup(t)
	out, err := runCLI(t, "--config", cfg, "layout", mf, "p=2")
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, out)
	}
	for _, want := range []string{"Page", "p002.jpg", "document"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestModesDOT(t *testing.T) {
	out, err := runCLI(t, "modes", "--current", "v=b&f=true")
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	if !strings.HasPrefix(out, "digraph viewmode {") {
		t.Errorf("output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, `"book+fullscreen" [label="book+fullscreen", fillcolor=lightgrey, penwidth=3]`) {
		t.Errorf("current state not highlighted:\n%s", out)
	}
}

func TestModesInvalidFormat(t *testing.T) {
	if _, err := runCLI(t, "modes", "--format", "png"); err == nil {
		t.Error("modes --format png succeeded, want error")
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	mf, cfg := setup(t)

	out, err := runCLI(t, "--config", cfg, "bookmark", "add", "colophon", mf, "#p=4&z=9")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "dropped z=9") {
		t.Errorf("add did not report the dropped zoom:\n%s", out)
	}

	out, err = runCLI(t, "--config", cfg, "bookmark", "add", "raw", mf, "#p=99", "--raw")
	if err != nil {
		t.Fatalf("add --raw: %v\n%s", err, out)
	}

	out, err = runCLI(t, "--config", cfg, "bookmark", "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var all []bookmark.Bookmark
	if err := json.Unmarshal([]byte(out), &all); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(all) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(all))
	}
	byName := map[string]bookmark.Bookmark{}
	for _, b := range all {
		byName[b.Name] = b
	}
	if f := byName["colophon"].Fragment; !strings.Contains(f, "p=4") || !strings.Contains(f, "z=0") {
		t.Errorf("canonical fragment = %q, want p=4 and z=0", f)
	}
	if f := byName["raw"].Fragment; f != "p=99" {
		t.Errorf("raw fragment = %q, want p=99", f)
	}

	out, err = runCLI(t, "--config", cfg, "bookmark", "show", "colophon")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, byName["colophon"].ID) {
		t.Errorf("show output missing ID:\n%s", out)
	}

	for _, ref := range []string{"colophon", byName["raw"].ID[:8]} {
		if out, err := runCLI(t, "--config", cfg, "bookmark", "rm", ref); err != nil {
			t.Fatalf("rm %s: %v\n%s", ref, err, out)
		}
	}

	out, err = runCLI(t, "--config", cfg, "bookmark", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No bookmarks yet") {
		t.Errorf("list after rm:\n%s", out)
	}

	if _, err := runCLI(t, "--config", cfg, "bookmark", "show", "colophon"); err == nil {
		t.Error("show of a deleted bookmark succeeded, want error")
	}
}

func TestCachePath(t *testing.T) {
	_, cfg := setup(t)
	if _, err := runCLI(t, "--config", cfg, "cache", "path"); err == nil {
		t.Error("cache path with backend none succeeded, want error")
	}

	dir := t.TempDir()
	fileCfg := filepath.Join(dir, "file.toml")
	cacheDir := filepath.Join(dir, "manifests")
	if err := os.WriteFile(fileCfg, []byte(fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = %q\n", cacheDir)), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "--config", fileCfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	out, err = runCLI(t, "--config", fileCfg, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("cache clear output:\n%s", out)
	}

	out, err = runCLI(t, "--config", fileCfg, "cache", "info")
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if !strings.Contains(out, "0 (0 expired)") || !strings.Contains(out, "0 B") {
		t.Errorf("cache info output:\n%s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
		3 << 30: "3.0 GiB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"800x600", 800, 600, false},
		{"1024X768", 1024, 768, false},
		{"0x600", 0, 0, true},
		{"800", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseSize(%q) = %d, %d, want %d, %d", tt.in, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestFormatPages(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{nil, "none"},
		{[]int{4}, "5"},
		{[]int{0, 1, 2, 5}, "1-3, 6"},
		{[]int{0, 2, 4, 5}, "1, 3, 5-6"},
	}
	for _, tt := range tests {
		if got := formatPages(tt.in); got != tt.want {
			t.Errorf("formatPages(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
