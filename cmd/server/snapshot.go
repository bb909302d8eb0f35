package main

import (
	"fmt"

	"github.com/CageChen/spaceinspect/internal/config"
	"github.com/CageChen/spaceinspect/internal/snapshot"
	"github.com/spf13/cobra"
)

func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "snapshot {env|disk|deps}",
		Short:     "Print one snapshot and exit",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"env", "disk", "deps"},
		RunE:      snapshotAction,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func snapshotAction(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var text string
	switch args[0] {
	case "env":
		text = snapshot.Environment() + "\n"
	case "disk":
		text = snapshot.DiskUsage(cfg.DiskCommand).Run(cmd.Context())
	case "deps":
		text = snapshot.Dependencies(cfg.DepsCommand).Run(cmd.Context())
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
