// Package version provides application version and build info.
//
//nolint:revive
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the current version of the relay.
	// It can be overridden by ldflags at build time.
	Version = "dev"
	// CommitHash is the git commit hash at build time.
	// It can be overridden by ldflags at build time.
	CommitHash = ""
	// BuildTime is the time when the binary was built.
	// It can be overridden by ldflags at build time.
	BuildTime = ""

	buildInfoOnce sync.Once
)

// Info is the JSON shape served by the version endpoint.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash,omitempty"`
	BuildTime  string `json:"build_time,omitempty"`
}

func loadBuildInfo() {
	buildInfoOnce.Do(func() {
		if CommitHash != "" {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				CommitHash = setting.Value
			case "vcs.time":
				BuildTime = setting.Value
			}
		}
	})
}

// Get returns the structured build info.
func Get() Info {
	loadBuildInfo()
	return Info{Version: Version, CommitHash: CommitHash, BuildTime: BuildTime}
}

// GetInfo returns a formatted version string including the short commit hash.
func GetInfo() string {
	info := Get()
	res := info.Version
	if info.CommitHash != "" {
		shortHash := info.CommitHash
		if len(shortHash) > 7 {
			shortHash = shortHash[:7]
		}
		res += fmt.Sprintf(" (%s)", shortHash)
	}
	return res
}
