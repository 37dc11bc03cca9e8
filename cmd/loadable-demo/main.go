package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loadable-demo",
		Short: "Demo server for the loadable-state library",
		Long: `loadable-demo runs a small WebSocket server that showcases the
reactive query loader:

  • One shared loadable stream, multicast to every connected client
  • Query changes cancel the in-flight fetch and refetch
  • Prometheus fetch metrics on /metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
