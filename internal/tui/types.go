package tui

import "time"

type interactionMode int

const (
	modeReading interactionMode = iota
	modeWriting
	modeDating
	modeLocked
)

func (m interactionMode) String() string {
	switch m {
	case modeWriting:
		return "WRITING"
	case modeDating:
		return "DATING"
	case modeLocked:
		return "LOCKED"
	default:
		return "READING"
	}
}

type overlay int

const (
	overlayNone overlay = iota
	overlayLooseLeaf
	overlayHelp
)

type side int

const (
	sideLeft side = iota
	sideRight
)

const (
	spineWidth    = 3
	minPageWidth  = 24
	maxPageWidth  = 60
	minPageHeight = 10
	// status line, key help, blank separator
	chromeHeight = 3
	// rounded border on each side
	pageBorder = 2
)

const (
	emptyTOCText   = "No pages yet. Turn the page to begin."
	noShadowText   = "_No analysis yet. Press s while reading this page._"
	undatedLabel   = "Undated"
	caretMarker    = "▌"
	bookTitle      = "SHADOWSCRIBE"
	bookSubtitle   = "a diary that writes back"
	openBookPrompt = "→ open"
	lockLabel      = "S E C U R E D"
	unlockedText   = "The lock clicks open."
)

type flipDoneMsg struct {
	seq uint64
}

type frameMsg struct {
	seq uint64
}

type pauseMsg struct {
	page int
	seq  uint64
}

type whisperResultMsg struct {
	page int
	text string
}

type analysisResultMsg struct {
	page     int
	analysis string
	tags     []string
}

type storeChangedMsg struct {
	at time.Time
}

// storeClosedMsg is delivered once when the change feed ends.
type storeClosedMsg struct{}
