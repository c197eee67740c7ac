// Package version holds build metadata injected via ldflags.
package version

// APIVersion is the version of the HTTP contract.
const APIVersion = "v1"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Build describes the running binary.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the build metadata of this binary.
func Current() Build {
	return Build{Version: Version, Commit: Commit, Date: Date}
}
