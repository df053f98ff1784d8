package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/faked/errors"
)

// Build information, set at build time via ldflags:
//
//	go build -ldflags "-X github.com/teranos/faked/version.Version=0.3.0"
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	Version    string `json:"version" yaml:"version"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// IsDev reports whether this is an untagged development build.
func (i Info) IsDev() bool { return i.Version == "dev" || i.Version == "" }

// Semver parses Version. Development builds have no semantic version.
func (i Info) Semver() (*semver.Version, error) {
	if i.IsDev() {
		return nil, errors.New("development build has no semantic version")
	}
	return semver.NewVersion(i.Version)
}

// String returns a human-readable version string
func (i Info) String() string {
	if !i.IsDev() {
		return fmt.Sprintf("faked %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
	}
	return fmt.Sprintf("faked dev (commit %s, built %s)", i.Short(), i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
