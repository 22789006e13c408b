// Package buildinfo carries version details stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/potmover/potmover/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the source revision.
	Commit = "none"
	// Date is the build time.
	Date = "unknown"
)

// String formats the build details for --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
