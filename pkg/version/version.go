// Package version reports which treegen build is running.
package version

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/drengskapur/treegen/pkg/version.Version=1.2.3 -X github.com/drengskapur/treegen/pkg/version.Commit=abcdefg"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// AppName is reported in log fields and version output.
const AppName = "treegen"

// Info is the build metadata printed by `treegen version`.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

// Get collects the link-time metadata and the running toolchain.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the long form printed without --short.
func (i Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		AppName, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
