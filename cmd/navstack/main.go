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
		Use:   "navstack",
		Short: "Navigation-stack engine tooling",
		Long: `navstack runs a navigation-stack engine and exposes it to external
presentation layers over HTTP and WebSocket.

The engine manages ordered route history with guarded pops, redirect
resolution, per-push result futures, and declarative reconciliation.`,
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

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("navstack %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
