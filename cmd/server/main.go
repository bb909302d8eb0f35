// Package main is the entry point for the spaceinspect server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "spaceinspect",
		Short: "Browse the filesystem and inspect the environment of a hosted sandbox",
		Long: `spaceinspect serves a web dashboard that lists directories, previews files,
and shows environment variables, disk usage and installed dependencies.

Warning: it exposes the entire file system and every environment variable to
anyone who can reach it. Only run it in private deployments.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serveAction,
	}
	registerServeFlags(root)

	root.AddCommand(
		newServeCommand(),
		newSnapshotCommand(),
		newInitConfigCommand(),
	)
	return root
}
