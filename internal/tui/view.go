package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/csheth/shadowscribe/internal/book"
	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/internal/guide"
	"github.com/csheth/shadowscribe/internal/markup"
)

func (m *model) View() string {
	var body string
	switch {
	case m.mode == modeLocked:
		body = m.lockView()
	case m.overlay == overlayHelp:
		body = m.helpView()
	case m.overlay == overlayLooseLeaf:
		body = m.withLooseLeaf(m.bookView())
	default:
		body = m.bookView()
	}

	parts := []string{body}
	if m.mode == modeDating {
		parts = append(parts, m.datingView())
	}
	parts = append(parts, m.statusLine(), m.keyHelpView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// bookView draws the open spread, or the turn in flight with the leaf laid
// over the base pages.
func (m *model) bookView() string {
	frame := m.ctrl.Frame(m.now())
	if !frame.Animating {
		spread := m.ctrl.Spread()
		return m.joinSpread(m.renderSlot(spread.Left, false), m.renderSlot(spread.Right, false))
	}

	left := m.renderSlot(frame.BaseLeft, false)
	right := m.renderSlot(frame.BaseRight, false)
	w := leafWidth(frame.Angle, m.layout.pageWidth+pageBorder)
	if frame.FrontVisible() {
		right = overlayLeaf(right, m.renderSlot(frame.Front, true), w, true)
	} else {
		left = overlayLeaf(left, m.renderSlot(frame.Back, true), w, false)
	}
	return m.joinSpread(left, right)
}

func (m *model) joinSpread(left, right string) string {
	height := m.layout.pageHeight + pageBorder
	spine := strings.TrimSuffix(strings.Repeat(" ┃ \n", height), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, spineStyle.Render(spine), right)
}

func (m *model) renderSlot(slot book.Slot, leaf bool) string {
	width, height := m.layout.pageWidth, m.layout.pageHeight
	var style lipgloss.Style
	var content string
	switch slot.Kind {
	case book.SlotCover:
		style = coverStyle
		content = m.coverContent()
	case book.SlotTOC:
		style = pageStyle
		content = m.tocContent(slot.TOC)
	case book.SlotPage:
		style = pageStyle
		content = m.pageContentView(slot.Page)
	default:
		style = voidStyle
		content = fitLines("", height, false)
	}
	if leaf && slot.Kind != book.SlotVoid {
		style = leafStyle
	}
	return style.Width(width).Height(height).Render(content)
}

// lockView draws the combination lock where the closed book would be.
func (m *model) lockView() string {
	digits := m.dial.Digits()
	rollers := make([]string, 0, len(digits))
	for i, d := range digits {
		style := rollerStyle
		if i == m.dial.Selected() {
			style = rollerOverStyle
		}
		rollers = append(rollers, style.Render(strconv.Itoa(d)))
	}
	inner := lipgloss.JoinVertical(lipgloss.Center,
		coverTitleStyle.Render(bookTitle),
		"",
		lockStyle.Render(lipgloss.JoinHorizontal(lipgloss.Center, rollers...)),
		footerStyle.Render(lockLabel),
	)
	return lipgloss.Place(m.layout.bookWidth(), m.layout.pageHeight+pageBorder, lipgloss.Center, lipgloss.Center, inner)
}

func (m *model) coverContent() string {
	inner := lipgloss.JoinVertical(lipgloss.Center,
		coverTitleStyle.Render(bookTitle),
		"",
		coverSubStyle.Render(bookSubtitle),
		"",
		helperStyle.Render(openBookPrompt),
	)
	return lipgloss.Place(m.layout.textWidth(), m.layout.pageHeight, lipgloss.Center, lipgloss.Center, inner)
}

func (m *model) tocContent(entries []book.TOCEntry) string {
	tw := m.layout.textWidth()
	lines := []string{tocTitleStyle.Render("Contents"), ""}
	if len(entries) == 0 {
		lines = append(lines, helperStyle.Render(wordwrap.String(emptyTOCText, tw)))
		return fitLines(strings.Join(lines, "\n"), m.layout.pageHeight, false)
	}

	visible := max((m.layout.pageHeight-len(lines))/2, 1)
	offset := max(m.tocCursor-visible+1, 0)
	for i := offset; i < len(entries) && i < offset+visible; i++ {
		entry := entries[i]
		preview := entry.Preview
		if entry.Truncated {
			preview += "…"
		}
		line := truncate.StringWithTail(fmt.Sprintf("%3d  %s", entry.PageNumber, preview), uint(tw), "…")
		if i == m.tocCursor && m.mode == modeReading {
			line = tocSelectedStyle.Render(line)
		}
		date := entry.DateLabel
		if date == "" {
			date = undatedLabel
		}
		lines = append(lines, line, helperStyle.Render(truncate.StringWithTail("     "+date, uint(tw), "…")))
	}
	return fitLines(strings.Join(lines, "\n"), m.layout.pageHeight, false)
}

func (m *model) pageContentView(page diary.Page) string {
	tw := m.layout.textWidth()
	label := page.DateLabel(m.config.DateLayout)
	if label == "" {
		label = undatedLabel
	}
	header := dateStyle.Render(truncate.StringWithTail(label, uint(tw), "…"))

	var text string
	keepTail := false
	if m.isWriting(page.PageNumber) {
		before, ghost, after := m.editor.Segments()
		text = before + caretStyle.Render(caretMarker)
		if ghost != "" {
			text += ghostStyle.Render(ghost)
		}
		text += after
		keepTail = true
	} else {
		text = markup.ToText(page.Content)
	}

	bodyHeight := max(m.layout.pageHeight-3, 1)
	body := fitLines(wrapText(text, tw), bodyHeight, keepTail)
	footer := footerStyle.Width(tw).Align(lipgloss.Center).Render(fmt.Sprintf("· %d ·", page.PageNumber))
	return header + "\n\n" + body + "\n" + footer
}

func (m *model) isWriting(pageNumber int) bool {
	return m.mode == modeWriting && m.editor != nil && pageNumber == m.editingPage
}

func wrapText(text string, width int) string {
	return wrap.String(wordwrap.String(text, width), width)
}

func (m *model) withLooseLeaf(bookView string) string {
	leaf := m.looseLeafView()
	if m.layout.windowWidth > 0 && m.layout.windowWidth < lipgloss.Width(bookView)+lipgloss.Width(leaf) {
		return leaf
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bookView, " ", leaf)
}

func (m *model) looseLeafView() string {
	md := m.looseLeafMarkdown(m.focusedPage())
	rendered := m.markdown.Render(md, m.layout.textWidth())
	return looseLeafStyle.
		Width(m.layout.pageWidth).
		Height(m.layout.pageHeight).
		Render(fitLines(rendered, m.layout.pageHeight, false))
}

func (m *model) looseLeafMarkdown(pageNumber int) string {
	if pageNumber < 1 {
		return "_Nothing to analyze on this spread._"
	}
	page, ok := m.shadowSource(pageNumber)
	if !ok || strings.TrimSpace(page.ShadowResponse) == "" {
		return noShadowText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Shadow Analysis, page %d\n\n", pageNumber)
	b.WriteString(page.ShadowResponse)
	if len(page.Tags) > 0 {
		b.WriteString("\n\n**Tags:** ")
		b.WriteString(strings.Join(page.Tags, ", "))
	}
	return b.String()
}

// shadowSource reads the page from the spread when it is on show, and from
// the diary otherwise.
func (m *model) shadowSource(pageNumber int) (diary.Page, bool) {
	if m.mode != modeWriting {
		spread := m.ctrl.Spread()
		for _, slot := range []book.Slot{spread.Left, spread.Right} {
			if slot.PageNumber() == pageNumber {
				return slot.Page, true
			}
		}
	}
	page, err := m.diary.Page(context.Background(), pageNumber)
	if err != nil {
		return diary.Page{}, false
	}
	return page, true
}

func (m *model) helpView() string {
	meta := guide.Metadata{Pause: m.config.Pause.String()}
	if m.config.LLM != nil {
		meta.Shadow = m.config.LLM.Name()
	}
	if pages, err := m.diary.List(context.Background()); err == nil {
		for _, p := range pages {
			if strings.TrimSpace(markup.ToText(p.Content)) != "" {
				meta.Pages++
			}
		}
	}
	width := m.layout.bookWidth()
	rendered := m.markdown.Render(guide.Markdown(guide.Build(meta)), width-4)
	return lipgloss.NewStyle().Width(width).Render(rendered)
}

func (m *model) datingView() string {
	return promptStyle.Render(fmt.Sprintf("Date for page %d: ", m.datingPage)) + m.dateInput.View()
}

func (m *model) statusLine() string {
	parts := []string{modeStyle.Render(m.modeLabel()), m.locationLabel()}
	if len(m.running) > 0 {
		parts = append(parts, m.spinner.View())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	} else if m.infoMessage != "" {
		parts = append(parts, m.infoMessage)
	}
	return statusBarStyle.Width(m.layout.bookWidth()).Render(strings.Join(parts, "  "))
}

func (m *model) modeLabel() string {
	if m.mode == modeWriting {
		return fmt.Sprintf("%s p.%d", m.mode, m.editingPage)
	}
	return m.mode.String()
}

func (m *model) locationLabel() string {
	n := m.ctrl.Current()
	switch n {
	case book.CoverSpread:
		return "Cover"
	case book.ContentsSpread:
		return "Contents · page 1"
	default:
		return fmt.Sprintf("Pages %d-%d", n-1, n)
	}
}

func (m *model) keyHelpView() string {
	switch m.mode {
	case modeWriting:
		return m.help.View(writingKeys{m.keys})
	case modeLocked:
		return m.help.View(lockKeys{m.keys})
	}
	return m.help.View(m.keys)
}
