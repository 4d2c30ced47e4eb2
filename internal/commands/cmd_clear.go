package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
)

type ClearCmd struct {
	flags *Flags
	app   *App

	// flags
	yes bool

	// confirm asks before wiping; replaced in tests.
	confirm func(title, description string) (bool, error)
}

// NewClearCmd creates a new clear command
func NewClearCmd(flags *Flags, app *App) *ClearCmd {
	return &ClearCmd{flags: flags, app: app, confirm: huhConfirm}
}

// Register adds the clear command to the application
func (cmd *ClearCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "clear",
		Usage:     "Erase every page",
		UsageText: "shadowscribe clear [--yes]",
		Description: `Deletes all pages, shadow analyses and tags. This cannot be undone;
run 'shadowscribe export' first to keep a copy.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ClearCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if !cmd.yes {
		ok, err := cmd.confirm("Erase every page?", "All entries, shadow analyses and tags will be deleted.")
		if err != nil {
			return fmt.Errorf("confirm clear: %w", err)
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Clear cancelled")
			return nil
		}
	}

	if err := cmd.app.Diary.Clear(ctx); err != nil {
		return fmt.Errorf("clear diary: %w", err)
	}
	_, _ = fmt.Fprintln(out, "All pages erased")
	return nil
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Erase").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}
