package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/csheth/shadowscribe/internal/llm"
	"github.com/csheth/shadowscribe/internal/markup"
)

type ProfileCmd struct {
	flags *Flags
	app   *App

	// flags
	style string
	width int

	// shadow builds the LLM client; replaced in tests.
	shadow func() (llm.Client, error)
}

// NewProfileCmd creates a new profile command
func NewProfileCmd(flags *Flags, app *App) *ProfileCmd {
	return &ProfileCmd{flags: flags, app: app, shadow: app.Shadow}
}

// Register adds the profile command to the application
func (cmd *ProfileCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "profile",
		Usage:     "Ask the shadow for a profile of the writer",
		UsageText: "shadowscribe profile [--style STYLE] [--width N]",
		Description: `Sends every written page, together with the tags the shadow has given
them, to the language model and prints a short profile of recurring
emotional patterns.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "style",
				Usage:       "glamour style used to render the profile",
				Sources:     cli.EnvVars("GLAMOUR_STYLE"),
				Value:       "dark",
				Destination: &cmd.style,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "wrap width",
				Value:       80,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ProfileCmd) run(ctx context.Context, c *cli.Command) error {
	pages, err := cmd.app.Diary.List(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	var (
		entries []string
		tags    []string
	)
	for _, p := range pages {
		text := strings.TrimSpace(markup.ToText(p.Content))
		if text == "" {
			continue
		}
		entries = append(entries, text)
		tags = append(tags, p.Tags...)
	}
	if len(entries) == 0 {
		return errors.New("no written pages to profile")
	}

	shadow, err := cmd.shadow()
	if err != nil {
		return fmt.Errorf("shadow unavailable: %w", err)
	}

	if cmd.app.Config.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.app.Config.LLM.Timeout)
		defer cancel()
	}

	profile, err := shadow.Profile(ctx, entries, tags)
	if err != nil {
		return fmt.Errorf("build profile: %w", err)
	}
	log.Info().Int("entries", len(entries)).Str("llm", shadow.Name()).Msg("profile generated")

	md := "# Shadow Profile\n\n" + profile
	_, err = fmt.Fprintln(c.Root().Writer, renderMarkdown(md, cmd.style, cmd.width))
	return err
}

func renderMarkdown(md, style string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return strings.Trim(rendered, "\n")
}
