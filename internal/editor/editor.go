// Package editor is the writing surface of a diary page. Besides plain
// editing it can overlay one transient "ghost" suggestion ahead of the caret
// that the writer accepts with Tab or dismisses by typing anything else.
//
// The editor never blocks and never starts timers itself: edits return a
// PauseTimer the host schedules, and the host calls Pause when it elapses.
package editor

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/shadowscribe/internal/markup"
)

// DefaultPause is the idle time after the last edit before OnPause fires.
const DefaultPause = 3 * time.Second

// unwrapped keeps every logical line on one textarea row so the caret moves
// by lines, not by soft-wrapped rows. Layout is left to the page renderer.
const unwrapped = 1 << 20

// Callbacks are invoked synchronously from editor methods.
type Callbacks struct {
	// OnChange receives the committed content after every user edit.
	OnChange func(content string)
	// OnPause fires once the writer has stopped typing for the pause duration.
	OnPause func()
	// OnAccept fires after a suggestion was committed with Tab.
	OnAccept func(text string)
	// OnDiscard fires when a shown suggestion was dismissed.
	OnDiscard func()
}

// PauseTimer asks the host to call Pause(Seq) after After has elapsed.
type PauseTimer struct {
	Seq   uint64
	After time.Duration
}

// Result reports what HandleKey did with a key.
type Result struct {
	// Handled means the key was consumed and must not be processed further.
	Handled bool
	// Timer is set when a user edit restarted the pause timer.
	Timer *PauseTimer
}

// Suggestion is the active ghost text and the committed offset it sits at.
type Suggestion struct {
	Text   string
	Anchor int
}

// Editor holds the surface, caret and typing state of one page. The
// committed document and the caret live in a textarea; the ghost is an
// overlay anchored at the caret and never reaches the textarea.
type Editor struct {
	area    textarea.Model
	ghost   *Suggestion
	focused bool
	typing  bool
	closed  bool

	pause    time.Duration
	pauseSeq uint64
	cb       Callbacks
}

// New returns an empty, unfocused editor.
func New(pause time.Duration, cb Callbacks) *Editor {
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Editor{area: newArea(), pause: pause, cb: cb}
}

func newArea() textarea.Model {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(unwrapped)
	ta.Focus()
	return ta
}

// SetContent replaces the committed document and moves the caret to the end.
// It is ignored while the writer is typing so external syncs cannot clobber
// in-flight edits. It reports whether the content was applied.
func (e *Editor) SetContent(content string) bool {
	if e.typing || e.closed {
		return false
	}
	e.ghost = nil
	e.area.SetValue(markup.ToText(content))
	e.area.CursorEnd()
	return true
}

// Value returns the committed document as page content. Ghost text is
// never included.
func (e *Editor) Value() string {
	return markup.FromText(e.area.Value())
}

// Text returns the committed document as plain text.
func (e *Editor) Text() string {
	return e.area.Value()
}

// Caret returns the committed rune offset of the caret.
func (e *Editor) Caret() int {
	lines := strings.Split(e.area.Value(), "\n")
	row := min(e.area.Line(), len(lines)-1)
	offset := 0
	for _, l := range lines[:row] {
		offset += utf8.RuneCountInString(l) + 1
	}
	info := e.area.LineInfo()
	return offset + info.StartColumn + info.ColumnOffset
}

// Focused reports whether the caret is inside the surface.
func (e *Editor) Focused() bool {
	return e.focused
}

// Typing reports whether an edit happened within the pause window.
func (e *Editor) Typing() bool {
	return e.typing
}

// Ghost returns the active suggestion, if any.
func (e *Editor) Ghost() (Suggestion, bool) {
	if e.ghost == nil {
		return Suggestion{}, false
	}
	return *e.ghost, true
}

// Segments splits the surface for drawing: committed text before the caret,
// the ghost sitting at the caret, and committed text after it.
func (e *Editor) Segments() (before, ghost, after string) {
	text := []rune(e.area.Value())
	caret := min(e.Caret(), len(text))
	before, after = string(text[:caret]), string(text[caret:])
	if g, ok := e.Ghost(); ok {
		ghost = g.Text
	}
	return before, ghost, after
}

// Focus places the caret inside the surface.
func (e *Editor) Focus() {
	if e.closed {
		return
	}
	e.focused = true
}

// Blur moves the caret out of the surface. Any suggestion is dismissed and
// a pending pause is dropped.
func (e *Editor) Blur() {
	e.typing = false
	e.pauseSeq++
	if e.sweepGhosts() {
		e.discarded()
	}
	e.focused = false
}

// Close tears the editor down. Pending timers become stale, ghosts are
// swept and callbacks are released.
func (e *Editor) Close() {
	e.pauseSeq++
	e.sweepGhosts()
	e.typing = false
	e.focused = false
	e.closed = true
	e.cb = Callbacks{}
}

// ShowSuggestion inserts text as a ghost at the caret, replacing any
// existing ghost. The caret stays in front of the ghost. Without a caret in
// the surface the suggestion is dropped. It reports whether a ghost is shown.
func (e *Editor) ShowSuggestion(text string) bool {
	if e.closed || !e.focused || strings.TrimSpace(text) == "" {
		return false
	}
	e.ghost = &Suggestion{Text: text, Anchor: e.Caret()}
	return true
}

// UserEdit runs after every change the writer makes: it dismisses any
// suggestion, publishes the new content and restarts the pause timer.
func (e *Editor) UserEdit() PauseTimer {
	if e.sweepGhosts() {
		e.discarded()
	}
	if e.cb.OnChange != nil {
		e.cb.OnChange(e.Value())
	}
	e.typing = true
	e.pauseSeq++
	return PauseTimer{Seq: e.pauseSeq, After: e.pause}
}

// Pause is the pause timer callback. Only the most recent timer counts.
func (e *Editor) Pause(seq uint64) bool {
	if e.closed || seq != e.pauseSeq || !e.typing {
		return false
	}
	e.typing = false
	if e.cb.OnPause != nil {
		e.cb.OnPause()
	}
	return true
}

// HandleKey applies one key press. With a ghost showing, Tab commits the
// ghost and any other non-modifier key dismisses it before being processed.
func (e *Editor) HandleKey(k Key) Result {
	if e.closed || !e.focused {
		return Result{}
	}
	if k.IsModifier() {
		return Result{}
	}

	if g, ok := e.Ghost(); ok {
		if k.Name == KeyTab {
			e.sweepGhosts()
			e.area.InsertString(g.Text)
			if e.cb.OnAccept != nil {
				e.cb.OnAccept(g.Text)
			}
			timer := e.UserEdit()
			return Result{Handled: true, Timer: &timer}
		}
		e.sweepGhosts()
		e.discarded()
	}

	switch k.Name {
	case KeyRunes:
		if len(k.Runes) == 0 {
			return Result{}
		}
		e.area.InsertString(string(k.Runes))
		return e.edited()
	case KeySpace:
		e.area.InsertRune(' ')
		return e.edited()
	case KeyEnter:
		e.area.InsertRune('\n')
		return e.edited()
	case KeyUp:
		if e.area.Line() == 0 {
			e.area.CursorStart()
		} else {
			e.area.CursorUp()
		}
		return Result{Handled: true}
	case KeyDown:
		if e.area.Line() >= e.area.LineCount()-1 {
			e.area.CursorEnd()
		} else {
			e.area.CursorDown()
		}
		return Result{Handled: true}
	case KeyWordLeft:
		if before, _, _ := e.Segments(); strings.TrimLeftFunc(before, unicode.IsSpace) == "" {
			e.toStart()
			return Result{Handled: true}
		}
	}

	msg, ok := areaKeys[k.Name]
	if !ok {
		return Result{}
	}
	prev := e.area.Value()
	e.area, _ = e.area.Update(msg)
	if e.area.Value() != prev {
		return e.edited()
	}
	return Result{Handled: true}
}

// areaKeys maps editing and motion keys onto the textarea's default keymap.
var areaKeys = map[KeyName]tea.KeyMsg{
	KeyBackspace: {Type: tea.KeyBackspace},
	KeyDelete:    {Type: tea.KeyDelete},
	KeyLeft:      {Type: tea.KeyLeft},
	KeyRight:     {Type: tea.KeyRight},
	KeyHome:      {Type: tea.KeyHome},
	KeyEnd:       {Type: tea.KeyEnd},
	KeyWordLeft:  {Type: tea.KeyLeft, Alt: true},
	KeyWordRight: {Type: tea.KeyRight, Alt: true},
}

func (e *Editor) edited() Result {
	timer := e.UserEdit()
	return Result{Handled: true, Timer: &timer}
}

func (e *Editor) discarded() {
	if e.cb.OnDiscard != nil {
		e.cb.OnDiscard()
	}
}

// sweepGhosts drops the ghost overlay. It reports whether one was showing.
func (e *Editor) sweepGhosts() bool {
	removed := e.ghost != nil
	e.ghost = nil
	return removed
}

func (e *Editor) toStart() {
	for e.area.Line() > 0 {
		e.area.CursorUp()
	}
	e.area.CursorStart()
}
