package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// bookLayout sizes one page of the open book. pageWidth and pageHeight
// are the dimensions inside the border.
type bookLayout struct {
	windowWidth  int
	windowHeight int
	pageWidth    int
	pageHeight   int
}

func newBookLayout() bookLayout {
	return bookLayout{
		pageWidth:  36,
		pageHeight: 18,
	}
}

func (l *bookLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height

	pageWidth := (width-spineWidth)/2 - pageBorder
	l.pageWidth = min(max(pageWidth, minPageWidth), maxPageWidth)

	pageHeight := height - chromeHeight - pageBorder
	l.pageHeight = max(pageHeight, minPageHeight)
}

// textWidth is the writable width of a page, inside its padding.
func (l bookLayout) textWidth() int {
	return l.pageWidth - 2
}

// bookWidth is the rendered width of both pages and the spine.
func (l bookLayout) bookWidth() int {
	return 2*(l.pageWidth+pageBorder) + spineWidth
}

// leafWidth is how many columns the turning leaf covers beside the spine.
// A leaf lying flat covers the whole page; standing upright it covers none.
func leafWidth(angle float64, pageWidth int) int {
	w := int(math.Round(math.Abs(math.Cos(angle*math.Pi/180)) * float64(pageWidth)))
	return min(max(w, 0), pageWidth)
}

// overlayLeaf lays the leaf face over the base page. On the right page the
// leaf hangs from the spine on its left edge; on the left page from its
// right edge.
func overlayLeaf(base, face string, w int, onRight bool) string {
	if w <= 0 {
		return base
	}
	total := lipgloss.Width(base)
	if w >= total {
		return face
	}
	baseLines := strings.Split(base, "\n")
	faceLines := strings.Split(face, "\n")
	for i, line := range baseLines {
		leaf := ""
		if i < len(faceLines) {
			leaf = faceLines[i]
		}
		if onRight {
			baseLines[i] = ansi.Truncate(leaf, w, "") + ansi.TruncateLeft(line, w, "")
		} else {
			baseLines[i] = ansi.Truncate(line, total-w, "") + ansi.TruncateLeft(leaf, total-w, "")
		}
	}
	return strings.Join(baseLines, "\n")
}

// fitLines pads or cuts text to exactly height lines. With keepTail the
// last lines survive, so a caret at the end of a long entry stays visible.
func fitLines(text string, height int, keepTail bool) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		if keepTail {
			lines = lines[len(lines)-height:]
		} else {
			lines = lines[:height]
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
