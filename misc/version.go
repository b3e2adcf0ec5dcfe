// Package misc holds build-time program identification.
package misc

import (
	"runtime/debug"
)

const appName = "luxstyle"

// Set by the linker: -X lux/misc.version=... -X lux/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns the commit the binary was built from. When not injected
// by the linker it falls back to VCS information recorded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
