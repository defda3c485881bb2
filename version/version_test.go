package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	read := func() (*debug.BuildInfo, bool) { return bi, true }

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "fills gaps",
			in:   Info{Version: "dev"},
			want: Info{Version: "dev", Commit: "0123456", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.26.0", Modified: true},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "0.4.0", Commit: "feedbee", BuildTime: "yesterday"},
			want: Info{Version: "0.4.0", Commit: "feedbee", BuildTime: "yesterday", GoVersion: "go1.26.0", Modified: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo(tt.in, read); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromBuildInfoUnavailable(t *testing.T) {
	in := Info{Version: "dev"}
	got := fromBuildInfo(in, func() (*debug.BuildInfo, bool) { return nil, false })
	if got != in {
		t.Errorf("expected input back, got %+v", got)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "0.4.0", GoVersion: "go1.26.0"}, "0.4.0 (go1.26.0)"},
		{Info{Version: "0.4.0", Commit: "abc1234", Modified: true, GoVersion: "go1.26.0"}, "0.4.0 (abc1234, modified, go1.26.0)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGet(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "9.9.9"
	if got := Get(); got.Version != "9.9.9" {
		t.Errorf("expected linked version, got %+v", got)
	}
}
