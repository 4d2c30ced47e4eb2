package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/internal/markup"
	"github.com/csheth/shadowscribe/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List written pages",
		UsageText: "shadowscribe ls [--json]",
		Description: `Displays a table of pages with their number, date and a short preview.

Use --json for one JSON object per line, including tags and whether the page
has a shadow analysis.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// pageInfo is the JSON output format for shadowscribe ls --json.
type pageInfo struct {
	PageNumber int      `json:"pageNumber"`
	Date       string   `json:"date"`
	Preview    string   `json:"preview"`
	Tags       []string `json:"tags"`
	Shadow     bool     `json:"shadow"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	pages, err := cmd.app.Diary.List(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	out := c.Root().Writer
	if len(pages) == 0 {
		if !cmd.jsonOutput {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, "No pages written")
		}
		return nil
	}

	if cmd.jsonOutput {
		for _, p := range pages {
			if err := iojson.WriteLine(out, cmd.buildPageInfo(p)); err != nil {
				return fmt.Errorf("encode page: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PAGE\tDATE\tPREVIEW\tTAGS")
	for _, p := range pages {
		info := cmd.buildPageInfo(p)
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", info.PageNumber, info.Date, info.Preview, strings.Join(info.Tags, ", "))
	}
	return w.Flush()
}

func (cmd *LsCmd) buildPageInfo(p diary.Page) pageInfo {
	preview, truncated := markup.Preview(p.Content, cmd.app.Config.Book.PreviewLength)
	if truncated {
		preview += "…"
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return pageInfo{
		PageNumber: p.PageNumber,
		Date:       p.DateLabel(cmd.app.Config.Book.DateLayout),
		Preview:    preview,
		Tags:       tags,
		Shadow:     strings.TrimSpace(p.ShadowResponse) != "",
	}
}
