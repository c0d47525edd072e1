package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := fill(Info{Version: "dev"}, bi)
	want := Info{Version: "v0.3.1", Commit: "0123456789abcdef0123", Date: "2026-01-02T03:04:05Z", Dirty: true}
	if got != want {
		t.Errorf("fill() = %+v, want %+v", got, want)
	}

	stamped := fill(Info{Version: "v1.0.0", Commit: "abc"}, bi)
	if stamped.Version != "v1.0.0" || stamped.Commit != "abc" {
		t.Errorf("stamped values should win, got %+v", stamped)
	}

	devel := fill(Info{Version: "dev"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if devel.Version != "dev" {
		t.Errorf("(devel) should not replace dev, got %q", devel.Version)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev (unknown)"},
		{Info{Version: "v1.0.0", Commit: "0123456789abcdef", Date: "2026-01-02"}, "v1.0.0 (0123456789ab, 2026-01-02)"},
		{Info{Version: "v1.0.0", Commit: "abc", Dirty: true}, "v1.0.0 (abc, modified)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} ") {
		t.Errorf("Template() = %q", Template())
	}
}
