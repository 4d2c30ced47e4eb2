package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

const defaultMarkdownStyle = "dark"

// markdownCache keeps one glamour renderer per wrap width and the last
// rendered document, since View runs on every animation frame.
type markdownCache struct {
	style    string
	width    int
	renderer *glamour.TermRenderer

	source string
	output string
}

func newMarkdownCache(style string) *markdownCache {
	if style == "" {
		style = defaultMarkdownStyle
	}
	return &markdownCache{style: style}
}

// Render returns md rendered for width columns, or md itself when glamour
// fails.
func (c *markdownCache) Render(md string, width int) string {
	width = max(width, 20)
	if c.renderer == nil || c.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(c.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
			return md
		}
		c.renderer = r
		c.width = width
		c.source = ""
	}
	if md == c.source && c.output != "" {
		return c.output
	}

	rendered, err := c.renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	c.source = md
	c.output = strings.Trim(rendered, "\n")
	return c.output
}
