package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-02-01T10:00:00Z"},
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		wantVersion string
		wantCommit  string
	}{
		{"from vcs", "", "", "dev-20260201", "0123456-dirty"},
		{"ldflags win", "v1.0.0", "abc", "v1.0.0", "abc"},
		{"only commit missing", "v1.0.0", "", "v1.0.0", "0123456-dirty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := resolve(tt.version, tt.commit, settings)
			if v != tt.wantVersion {
				t.Errorf("version = %q, want %q", v, tt.wantVersion)
			}
			if c != tt.wantCommit {
				t.Errorf("commit = %q, want %q", c, tt.wantCommit)
			}
		})
	}
}

func TestResolve_NoVCS(t *testing.T) {
	v, c := resolve("", "", nil)
	if v != "" || c != "" {
		t.Errorf("resolve() = %q, %q; want empty values", v, c)
	}
}

func TestPopulated(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Error("init should always populate Version and Commit")
	}
	if !strings.Contains(Full(), Commit) {
		t.Errorf("Full() = %q, should contain commit", Full())
	}
	if !strings.HasPrefix(UserAgent("admitform"), "admitform/"+Version) {
		t.Errorf("UserAgent() = %q", UserAgent("admitform"))
	}
	if Info().Version != Version {
		t.Error("Info().Version should match Version")
	}
}
