// ABOUTME: Tests for deriving version details from Go build info
package main

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/harper/roadblock", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   [3]string
		want [3]string
	}{
		{
			name: "defaults are filled",
			in:   [3]string{"dev", "none", "unknown"},
			want: [3]string{"v0.3.1", "0123456789ab-dirty", "2026-10-01T12:00:00Z"},
		},
		{
			name: "linker values win",
			in:   [3]string{"1.0.0", "cafe", "2026-01-01"},
			want: [3]string{"1.0.0", "cafe", "2026-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c, d := fromBuildInfo(bi, tt.in[0], tt.in[1], tt.in[2])
			if got := [3]string{v, c, d}; got != tt.want {
				t.Errorf("fromBuildInfo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromBuildInfo_DevelBuild(t *testing.T) {
	bi := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	v, c, d := fromBuildInfo(bi, "dev", "none", "unknown")
	if v != "dev" || c != "none" || d != "unknown" {
		t.Errorf("fromBuildInfo() = %q, %q, %q; want defaults kept", v, c, d)
	}
}
