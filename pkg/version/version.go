// Package version records build provenance stamped in at link time.
package version

import "fmt"

// These are overridden via -ldflags on release builds, e.g.
//
//	go build -ldflags "-X .../pkg/version.Version=v1.2.3"
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp in RFC 3339 format.
	Date = "unknown"
)

// String returns a single-line human-readable version string.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
