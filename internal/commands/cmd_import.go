package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *App
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Replace the diary with pages from a JSON file",
		UsageText: "shadowscribe import FILE",
		Description: `Reads a JSON array of pages, as written by 'shadowscribe export', and
replaces every page in the diary with it.

Each entry is checked before anything is written. If any field is invalid
the offending fields are printed and the diary is left untouched.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("import requires a FILE argument")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	if err := cmd.app.Diary.Import(ctx, data); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.Is(err, diary.ErrInvalidImport) && errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field)
			}
			_ = iojson.WriteError(c.Root().ErrWriter, "invalid import", map[string]any{
				"file":   path,
				"fields": fields,
			})
		}
		return fmt.Errorf("import %s: %w", path, err)
	}

	pages, err := cmd.app.Diary.List(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Imported %d page(s) from %s\n", len(pages), path)
	return nil
}
