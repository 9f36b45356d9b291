// Package version reports build information for the astbuild binary.
package version

import (
	"fmt"
	"runtime"

	"github.com/teranos/astbuild/builders"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	Version       string `json:"version"`
	CommitHash    string `json:"commit_hash"`
	BuildTime     string `json:"build_time"`
	SchemaVersion string `json:"schema_version"`
	BuilderCount  int    `json:"builder_count"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
}

// Get returns the current version information, including the embedded
// builder schema
func Get() Info {
	lib := builders.Default()
	return Info{
		Version:       Version,
		CommitHash:    CommitHash,
		BuildTime:     BuildTime,
		SchemaVersion: lib.Version().String(),
		BuilderCount:  len(lib.Kinds()),
		GoVersion:     runtime.Version(),
		Platform:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("astbuild %s (commit %s, built %s, schema %s)", i.Version, i.Short(), i.BuildTime, i.SchemaVersion)
}

// Short returns the commit hash cut to seven characters
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
