package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/dotfield/audio"
	"github.com/lixenwraith/dotfield/config"
	"github.com/lixenwraith/dotfield/engine"
	"github.com/lixenwraith/dotfield/render"
)

// globalOptions are flags shared by every command
type globalOptions struct {
	configPath string
	seed       uint64
	highlight  string
	debug      bool
}

// runOptions are flags of the interactive view
type runOptions struct {
	watch   bool
	noAudio bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	r := &runOptions{}

	root := &cobra.Command{
		Use:   "dotfield",
		Short: "Animated 3D dot scatter in the terminal",
		Long: Brand.Sprint(Dot+" dotfield") + " · drifting dots, hover to highlight, click for a label\n" +
			Subtle.Sprint("Mouse over a gold dot, click it to pin its label, scroll to zoom, q to quit"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, g, r)
		},
	}
	root.SetVersionTemplate("dotfield {{ .Version }}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file (TOML, or YAML by extension)")
	pf.Uint64Var(&g.seed, "seed", 0, "Scene seed; 0 picks a random one")
	pf.StringVar(&g.highlight, "highlight", "", "Highlight mode: animated or instant")
	pf.BoolVar(&g.debug, "debug", false, "Write debug logs to logs/dotfield.log")

	addRunFlags(root, r)

	root.AddCommand(
		runCmd(g),
		snapshotCmd(g),
		statsCmd(g),
		configCmd(g),
		versionCmd(),
	)
	return root
}

func addRunFlags(cmd *cobra.Command, r *runOptions) {
	cmd.Flags().BoolVar(&r.watch, "watch", false, "Reload the config file when it changes")
	cmd.Flags().BoolVar(&r.noAudio, "no-audio", false, "Disable interaction sounds")
}

func runCmd(g *globalOptions) *cobra.Command {
	r := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive view (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, g, r)
		},
	}
	addRunFlags(cmd, r)
	return cmd
}

// load resolves, overlays and validates the configuration for cmd
func (g *globalOptions) load(cmd *cobra.Command) (*config.Config, string, error) {
	path := config.Resolve(g.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Scene.Seed = g.seed
	}
	if flags.Changed("highlight") {
		cfg.Highlight.Mode = g.highlight
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func runView(cmd *cobra.Command, g *globalOptions, r *runOptions) error {
	cfg, path, err := g.load(cmd)
	if err != nil {
		return err
	}

	logger, logFile := setupLogging(g.debug)
	defer func() {
		_ = logger.Sync()
		if logFile != nil {
			logFile.Close()
		}
	}()

	app, err := engine.New(cfg, logger.Named("app"))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Panic recovery: restore the terminal before reporting
	defer func() {
		if rec := recover(); rec != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mDOTFIELD CRASHED: %v\x1b[0m\r\n", rec)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	screen.EnableMouse()
	screen.HideCursor()

	renderer := render.NewRenderer(screen, cfg.Palette())
	renderer.ShowHUD = cfg.Render.HUD

	var sm *audio.SoundManager
	if cfg.Audio.Enabled && !r.noAudio {
		sm = audio.NewSoundManager(cfg.Audio.Volume)
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio unavailable, continuing without sound", zap.Error(err))
			sm = nil
		} else {
			app.SetCues(sm)
			defer sm.Cleanup()
		}
	}

	loop := engine.NewLoop(app, screen, renderer, nil, logger.Named("loop"))
	loop.OnReload = func(c *config.Config) {
		renderer.SetPalette(c.Palette())
		renderer.ShowHUD = c.Render.HUD
		if sm == nil {
			return
		}
		sm.SetVolume(c.Audio.Volume)
		if c.Audio.Enabled {
			app.SetCues(sm)
		} else {
			app.SetCues(nil)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	if r.watch {
		if path == "" {
			logger.Warn("--watch ignored: no config file")
		} else {
			reloads := make(chan *config.Config, 1)
			loop.SetReloads(reloads)
			eg.Go(func() error {
				return config.Watch(ctx, path, reloads, logger.Named("config"))
			})
		}
	}
	eg.Go(func() error {
		defer cancel()
		return loop.Run(ctx)
	})

	logger.Info("dotfield started",
		zap.Uint64("seed", app.Seed()),
		zap.String("config", path),
		zap.String("highlight", cfg.Highlight.Mode),
	)
	return eg.Wait()
}
