package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(cmd.OutOrStdout())
			return nil
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "boardmap %s\n", version)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Fprintf(w, "Git commit: %s\n", s.Value)
			case "vcs.time":
				fmt.Fprintf(w, "Build date: %s\n", s.Value)
			case "vcs.modified":
				if s.Value == "true" {
					fmt.Fprintln(w, "Git status: dirty (uncommitted changes)")
				}
			}
		}
	}
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
}
