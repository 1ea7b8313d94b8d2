package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFrom(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}

	tests := []struct {
		name                string
		version, commit     string
		wantVer, wantCommit string
	}{
		{"unstamped", "dev", "none", "v0.3.1", "abc123"},
		{"ldflags win", "v1.0.0", "fff", "v1.0.0", "fff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, "unknown"
			fillFrom(info)
			if Version != tt.wantVer || Commit != tt.wantCommit || Date != "2026-10-01T12:00:00Z" {
				t.Errorf("got %s %s %s", Version, Commit, Date)
			}
		})
	}

	Version = "dev"
	fillFrom(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("Version = %q, want dev for a devel build", Version)
	}
}

func TestTemplate(t *testing.T) {
	Version, Commit, Date = "v2.0.0", "c0ffee", "today"
	got := Template()
	for _, want := range []string{"{{.Name}} version v2.0.0", "commit: c0ffee", "built: today"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}
