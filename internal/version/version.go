package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/skeletor/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/skeletor/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/skeletor/internal/version.Date={{.Date}}
)

// String formats the build information for the version command.
func String() string {
	return fmt.Sprintf("skeletor %s (commit %s, built %s)", Version, Commit, Date)
}
