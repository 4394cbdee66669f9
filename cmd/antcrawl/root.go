package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for antcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "antcrawl",
		Short: "Pipeline-driven crawling agent",
		Long: `antcrawl crawls web sites through an extensible pipeline engine.

Requests, responses, and collected items each flow through their own
pipeline chain; network sends run with bounded retries, per-attempt
timeouts, and per-host session reuse.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
