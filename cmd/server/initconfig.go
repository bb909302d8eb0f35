package main

import (
	"fmt"
	"os"

	"github.com/CageChen/spaceinspect/internal/config"
	"github.com/spf13/cobra"
)

func newInitConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a configuration file with the current settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.SetConfigFilePath(args[0])
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(cfg.GetConfigFilePath()); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.GetConfigFilePath())
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.GetConfigFilePath())
			return err
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
