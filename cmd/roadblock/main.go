// ABOUTME: Main entry point for the roadblock CLI
// ABOUTME: Fills in version details from the Go build info when not set at link time
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/harper/roadblock/cmd/roadblock/commands"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		version, commit, date = fromBuildInfo(bi, version, commit, date)
	}
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fromBuildInfo fills whichever of version, commit and date still hold their
// defaults, using the module version and VCS stamps of a `go install` build.
func fromBuildInfo(bi *debug.BuildInfo, version, commit, date string) (string, string, string) {
	if version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		version = bi.Main.Version
	}

	var revision, built string
	dirty := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			built = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "none" && revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		if dirty {
			revision += "-dirty"
		}
		commit = revision
	}
	if date == "unknown" && built != "" {
		date = built
	}
	return version, commit, date
}
