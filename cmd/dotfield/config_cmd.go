package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/dotfield/config"
)

func configCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd(g))
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Long:  "Write the default configuration to path, or to " + config.DefaultPath() + ".\nA .yaml or .yml extension selects YAML.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists; use --force to overwrite", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", Good.Sprint("✓"), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func configShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration source and key values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := g.load(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			banner(w, "configuration")
			if path == "" {
				path = Subtle.Sprint("built-in defaults")
			}
			field(w, "Source", path)
			field(w, "Dots", fmt.Sprintf("%d interactive, %v other", cfg.Scene.Interactive, cfg.Scene.NonInteractive))
			field(w, "Connector p", cfg.Scene.ConnectorProbability)
			field(w, "Speeds", fmt.Sprintf("%g normal, %g hover", cfg.Motion.NormalSpeed, cfg.Motion.HoverSpeed))
			field(w, "Highlight", cfg.Highlight.Mode)
			field(w, "Zoom", fmt.Sprintf("%g in [%g, %g]", cfg.Camera.Distance, cfg.Camera.MinDistance, cfg.Camera.MaxDistance))
			field(w, "Audio", cfg.Audio.Enabled)
			return nil
		},
	}
}
