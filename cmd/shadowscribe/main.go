package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/csheth/shadowscribe/internal/commands"
	"github.com/csheth/shadowscribe/internal/config"
	"github.com/csheth/shadowscribe/internal/logging"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		diaryApp  = &commands.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "shadowscribe",
		Usage:     "A paper diary that whispers back",
		UsageText: "shadowscribe [global options] command [command options]",
		Description: `Shadowscribe is a terminal diary drawn as an open book. Pages turn with
the arrow keys; while you write, a pause brings a faint suggestion that tab
accepts, and the shadow can read a page back to you on a loose leaf.

Run 'shadowscribe' with no arguments to open the book.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SHADOWSCRIBE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/shadowscribe.log)",
				Sources:     cli.EnvVars("SHADOWSCRIBE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SHADOWSCRIBE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SHADOWSCRIBE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the book's screen stays clean.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "shadowscribe.log")
			}

			logger, closer, err := logging.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			opened, err := commands.OpenApp(cfg)
			if err != nil {
				return ctx, err
			}
			*diaryApp = *opened

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := diaryApp.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close store")
				return err
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, diaryApp)

	app = commands.NewLsCmd(flags, diaryApp).Register(app)
	app = commands.NewExportCmd(flags, diaryApp).Register(app)
	app = commands.NewImportCmd(flags, diaryApp).Register(app)
	app = commands.NewClearCmd(flags, diaryApp).Register(app)
	app = commands.NewProfileCmd(flags, diaryApp).Register(app)
	app = commands.NewLockCmd(flags, diaryApp).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Open the book when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'shadowscribe --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}
	os.Exit(exitCode)
}
