// Package version reports build information for the running binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set via ldflags at build time
var Version = "dev"

// Info contains version and build information
type Info struct {
	Version     string `json:"version"`
	GoVersion   string `json:"goVersion"`
	VCSRevision string `json:"vcsRevision,omitempty"`
	VCSModified bool   `json:"vcsModified,omitempty"`
}

// Get returns the current version and build information
func Get() Info {
	info := Info{Version: Version}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.VCSRevision = setting.Value
			case "vcs.modified":
				info.VCSModified = setting.Value == "true"
			}
		}
	}

	return info
}

// String returns a human-readable version string
func (i Info) String() string {
	s := fmt.Sprintf("%s (%s)", i.Version, i.GoVersion)
	if i.VCSRevision != "" {
		rev := i.VCSRevision
		if len(rev) > 8 {
			rev = rev[:8]
		}
		if i.VCSModified {
			rev += "+dirty"
		}
		s += " " + rev
	}
	return s
}
