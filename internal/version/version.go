// Package version reports build information for the running binary.
package version

import (
	"runtime/debug"
	"time"
)

// Info is the subset of runtime/debug.BuildInfo the rest of the module
// cares about: the VCS revision and commit time baked in by the Go
// toolchain at build time.
type Info struct {
	Commit string
	Date   string
	Dirty  bool
}

// VCS reads build-time VCS stamps embedded by `go build` (Go 1.18+). ok is
// false when the binary was built without module/VCS information (e.g. `go
// run` against a non-module checkout).
func VCS() (Info, bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}, false
	}
	var info Info
	var haveRevision bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			haveRevision = true
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				info.Date = t.Format("20060102")
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info, haveRevision
}
