package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/stmarys-jajpur/admitform/internal/version.Version=v1.2.3 \
//	                   -X github.com/stmarys-jajpur/admitform/internal/version.Commit=abc123"
//
// Otherwise they are filled from VCS build info, or fall back to "dev".
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			Version, Commit = resolve(Version, Commit, info.Settings)
		}
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// resolve fills missing version and commit values from VCS settings
func resolve(version, commit string, settings []debug.BuildSetting) (string, string) {
	var revision, modified, vcsTime string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if commit == "" && revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}

	if version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}

	return version, commit
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the HTTP User-Agent for app
func UserAgent(app string) string {
	return fmt.Sprintf("%s/%s (%s/%s)", app, Version, runtime.GOOS, runtime.GOARCH)
}

// BuildInfo is the machine-readable version report
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Info returns the version report for `version --json`
func Info() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
