// Package guide produces the help page shown inside the diary.
package guide

import (
	"fmt"
	"strings"
)

// Step represents one instruction on the help page.
type Step struct {
	Title       string
	Description string
}

// Metadata carries just enough context for personalizing the help page.
type Metadata struct {
	Pages  int    // pages that already hold writing
	Shadow string // name of the language model, empty when disabled
	Pause  string // idle time before a whisper, e.g. "3s"
}

// Build returns the help steps for the current diary.
func Build(meta Metadata) []Step {
	pause := strings.TrimSpace(meta.Pause)
	if pause == "" {
		pause = "a few seconds"
	}

	opening := "Press → to open the cover. The contents spread fills in as you start filling pages."
	if meta.Pages > 0 {
		opening = fmt.Sprintf("Press → to open the cover. The contents spread lists your %d written %s; pick one with ↑/↓ and enter to jump there.", meta.Pages, plural(meta.Pages, "page", "pages"))
	}

	whisper := "No shadow is listening. Set llm.provider in the config, or run Ollama locally, to hear whispers."
	if meta.Shadow != "" {
		whisper = fmt.Sprintf("Stop typing for %s and %s whispers a continuation in faint italics. Tab accepts it; any other key sends it away.", pause, meta.Shadow)
	}

	return []Step{
		{
			Title:       "Turning pages",
			Description: opening + " Use ← and → to turn; x closes the book back to its cover.",
		},
		{
			Title:       "Writing",
			Description: "Press i to write on the right page, I for the left. Esc stops writing. Every keystroke is saved as you go.",
		},
		{
			Title:       "The whisper",
			Description: whisper,
		},
		{
			Title:       "Loose leaf",
			Description: "Press s to slip the entry under the shadow's typewriter. L shows the last analysis and its emotional tags.",
		},
		{
			Title:       "Leaving",
			Description: "Ctrl+C closes the diary. Use `shadowscribe export` to keep a copy of every page.",
		},
	}
}

// Markdown renders steps as a numbered markdown list for glamour.
func Markdown(steps []Step) string {
	var b strings.Builder
	b.WriteString("# How to use this diary\n\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. **%s** – %s\n", i+1, step.Title, step.Description)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
