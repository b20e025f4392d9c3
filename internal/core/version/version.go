// Package version reports what build is running. The variables are stamped by the
// release build:
//
//	go build -ldflags "-X ksefconnect/internal/core/version.version=v0.3.1 -X ksefconnect/internal/core/version.commit=$(git rev-parse --short HEAD)"
package version

import "runtime/debug"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
}

// Info falls back to the VCS stamp the go tool embeds when commit was not set
func Info() BuildInfo {
	bi := BuildInfo{Service: "ksefconnect-api", Version: version, Commit: commit, Date: date}
	if bi.Commit != "" {
		return bi
	}
	bi.Commit = "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				bi.Commit = s.Value
			case "vcs.time":
				if bi.Date == "" {
					bi.Date = s.Value
				}
			}
		}
	}
	return bi
}
