package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildDetails holds the resolved version, commit, and build date.
type buildDetails struct {
	version string
	commit  string
	date    string
}

// resolveBuildDetails collects version information in one pass.
// Each field prefers its ldflags value, then the module build info
// embedded by the Go toolchain, then a placeholder.
func resolveBuildDetails() buildDetails {
	d := buildDetails{
		version: version,
		commit:  commit,
		date:    date,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if d.version == "" {
			d.version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if d.commit == "" {
					d.commit = shortCommit(setting.Value)
				}
			case "vcs.time":
				if d.date == "" {
					d.date = setting.Value
				}
			}
		}
	}

	if d.version == "" {
		d.version = "(devel)"
	}
	if d.commit == "" {
		d.commit = "unknown"
	}
	if d.date == "" {
		d.date = "unknown"
	}
	return d
}

// shortCommit abbreviates a revision hash to seven characters.
func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of webscout.`,
		Run: func(cmd *cobra.Command, _ []string) {
			d := resolveBuildDetails()
			fmt.Fprintf(cmd.OutOrStdout(), "webscout version %s\n", d.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", d.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", d.date)
		},
	}
}
