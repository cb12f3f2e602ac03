package version

import "fmt"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/themebridge/internal/version.Version=v0.3.0".
var Version = "0.0.1.dev0"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version with its build metadata for `themebridge version`.
func String() string {
	return fmt.Sprintf("themebridge %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
