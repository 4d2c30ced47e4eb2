package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type ExportCmd struct {
	flags *Flags
	app   *App

	// flags
	out string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export every page as JSON",
		UsageText: "shadowscribe export [--out FILE]",
		Description: `Writes all pages as an indented JSON array. The output can be fed back
with 'shadowscribe import'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write to FILE instead of stdout",
				Destination: &cmd.out,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	data, err := cmd.app.Diary.Export(ctx)
	if err != nil {
		return fmt.Errorf("export diary: %w", err)
	}

	if cmd.out == "" {
		_, err := fmt.Fprintln(c.Root().Writer, string(data))
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cmd.out), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(cmd.out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	log.Info().Str("path", cmd.out).Msg("diary exported")
	_, _ = fmt.Fprintf(c.Root().Writer, "Exported diary to %s\n", cmd.out)
	return nil
}
