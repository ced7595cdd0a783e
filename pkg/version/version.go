// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X github.com/Sumatoshi-tech/devlog/pkg/version.Version=v1.2.0 \
//	  -X github.com/Sumatoshi-tech/devlog/pkg/version.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/Sumatoshi-tech/devlog/pkg/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

// Build metadata. Overridden with -ldflags -X.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the metadata for the version command.
func String() string {
	return fmt.Sprintf("devlog %s (commit: %s, built: %s)", Version, Commit, Date)
}
