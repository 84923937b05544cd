package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGet(t *testing.T) {
	installed := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name    string
		bi      *debug.BuildInfo
		version string
		want    Info
	}{
		{
			name:    "ldflags win",
			bi:      installed,
			version: "v1.0.0",
			want:    Info{Version: "v1.0.0", Commit: "abc123", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.24.0"},
		},
		{
			name:    "go install fallback",
			bi:      installed,
			version: "dev",
			want:    Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.24.0"},
		},
		{
			name:    "devel build",
			bi:      &debug.BuildInfo{GoVersion: "go1.24.0", Main: debug.Module{Version: "(devel)"}},
			version: "dev",
			want:    Info{Version: "dev", Commit: "none", Date: "unknown", GoVersion: "go1.24.0"},
		},
		{
			name:    "no build info",
			version: "dev",
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.bi)
			orig := Version
			Version = tt.version
			t.Cleanup(func() { Version = orig })

			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	stubBuildInfo(t, nil)
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version dev\n") || !strings.HasSuffix(got, "built: unknown\n") {
		t.Errorf("Template() = %q", got)
	}
}

func TestInfoString(t *testing.T) {
	got := Info{Version: "v1", Commit: "c", Date: "d", GoVersion: "go1.24.0"}.String()
	want := "version: v1\ncommit: c\nbuilt: d\ngo: go1.24.0"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
