package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/csheth/shadowscribe/internal/lock"
)

var errNoLockPath = errors.New("no lock path configured; set lock.path or --data-dir")

type LockCmd struct {
	flags *Flags
	app   *App

	// prompt reads a combination when none is given; replaced in tests.
	prompt func(title string) (string, error)
}

// NewLockCmd creates a new lock command
func NewLockCmd(flags *Flags, app *App) *LockCmd {
	return &LockCmd{flags: flags, app: app, prompt: huhCode}
}

// Register adds the lock command to the application
func (cmd *LockCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "lock",
		Usage:     "Manage the privacy lock on the cover",
		UsageText: "shadowscribe lock [set [CODE] | remove | status]",
		Description: `A locked diary shows a four-roller combination lock before the cover.
Roll the rollers to the code to open the book.`,
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set or change the 4-digit combination",
				UsageText: "shadowscribe lock set [CODE]",
				Action:    cmd.runSet,
			},
			{
				Name:   "remove",
				Usage:  "Remove the lock",
				Action: cmd.runRemove,
			},
			{
				Name:   "status",
				Usage:  "Show whether the diary is locked",
				Action: cmd.runStatus,
			},
		},
		Action: cmd.runStatus,
	})

	return app
}

func (cmd *LockCmd) file() (*lock.File, error) {
	if cmd.app.Lock == nil {
		return nil, errNoLockPath
	}
	return cmd.app.Lock, nil
}

func (cmd *LockCmd) runSet(ctx context.Context, c *cli.Command) error {
	f, err := cmd.file()
	if err != nil {
		return err
	}

	code := c.Args().First()
	if code == "" {
		current, err := f.Code()
		if err != nil {
			return err
		}
		title := "New 4-digit combination"
		if current != "" {
			title = "Change the 4-digit combination"
		}
		if code, err = cmd.prompt(title); err != nil {
			return fmt.Errorf("read combination: %w", err)
		}
	}

	if err := f.Set(code); err != nil {
		return fmt.Errorf("set lock: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "Lock secured")
	return nil
}

func (cmd *LockCmd) runRemove(ctx context.Context, c *cli.Command) error {
	f, err := cmd.file()
	if err != nil {
		return err
	}
	if err := f.Remove(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "Lock removed")
	return nil
}

func (cmd *LockCmd) runStatus(ctx context.Context, c *cli.Command) error {
	f, err := cmd.file()
	if err != nil {
		return err
	}
	code, err := f.Code()
	if err != nil {
		return err
	}
	if code == "" {
		_, _ = fmt.Fprintln(c.Root().Writer, "Unlocked")
		return nil
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Locked (%s)\n", f.Path())
	return nil
}

func huhCode(title string) (string, error) {
	var code string
	err := huh.NewInput().
		Title(title).
		CharLimit(lock.Digits).
		EchoMode(huh.EchoModePassword).
		Validate(lock.Validate).
		Value(&code).
		Run()
	return code, err
}
