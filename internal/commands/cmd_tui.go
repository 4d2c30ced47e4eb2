package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/csheth/shadowscribe/internal/book"
	"github.com/csheth/shadowscribe/internal/llm"
	"github.com/csheth/shadowscribe/internal/store/jsonfile"
	"github.com/csheth/shadowscribe/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *App

	// flags
	noAltScreen   bool
	markdownStyle string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-alt-screen",
			Usage:       "disable the alternate screen buffer",
			Destination: &cmd.noAltScreen,
		},
		&cli.StringFlag{
			Name:        "markdown-style",
			Usage:       "glamour style for the loose leaf and help (dark, light, notty, ...)",
			Sources:     cli.EnvVars("GLAMOUR_STYLE"),
			Destination: &cmd.markdownStyle,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config
	d := cmd.app.Diary

	seeded, err := d.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize diary: %w", err)
	}
	if seeded {
		log.Info().Msg("seeded a new diary")
	}

	var lockCode string
	if cmd.app.Lock != nil {
		if lockCode, err = cmd.app.Lock.Code(); err != nil {
			return fmt.Errorf("read lock: %w", err)
		}
	}

	nav := book.NewNavigator(d, book.NavigatorConfig{
		PreviewLength: cfg.Book.PreviewLength,
		DateLayout:    cfg.Book.DateLayout,
	})
	ctrl := book.NewController(nav, book.NewAnimator(cfg.Book.FlipDuration, book.Spread{}))

	shadow, err := cmd.app.Shadow()
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, "LLM disabled:", err)
		}
		log.Warn().Err(err).Msg("shadow unavailable")
	}

	var changes <-chan jsonfile.ChangeEvent
	if pages := cmd.app.Pages; pages != nil {
		watcher, err := jsonfile.NewWatcher(pages.Path(), jsonfile.IgnoreWritesBy(pages))
		if err != nil {
			log.Warn().Err(err).Str("path", pages.Path()).Msg("store watcher unavailable")
		} else {
			defer func() { _ = watcher.Close() }()
			changes = watcher.Events()
		}
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !cmd.noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Diary:         d,
			Controller:    ctrl,
			LLM:           shadow,
			Changes:       changes,
			Pause:         cfg.Editor.Pause,
			FrameInterval: cfg.Book.FrameInterval,
			LLMTimeout:    cfg.LLM.Timeout,
			DateLayout:    cfg.Book.DateLayout,
			MarkdownStyle: cmd.markdownStyle,
			LockCode:      lockCode,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
