// Command boardmap builds climbing-route packages and inspects them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boardmap",
		Short: "Build and explore 2D maps of climbing-board routes",
		Long: `boardmap filters a route dataset by difficulty, projects the route
embeddings to 2D and writes a compact package. The inspect command opens a
package and applies the same filters and clicks an interactive explorer does.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd(), newInspectCmd(), newVersionCmd())
	return root
}
