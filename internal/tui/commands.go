package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/shadowscribe/internal/book"
	"github.com/csheth/shadowscribe/internal/editor"
)

// flipDone ends a page turn after its fixed duration. It cannot be
// cancelled; a stale seq is ignored by the animator.
func flipDone(t book.Transition) tea.Cmd {
	seq := t.Seq
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return flipDoneMsg{seq: seq}
	})
}

// frameTick repaints the turning leaf. Frames only redraw; they never end
// a turn.
func (m *model) frameTick(seq uint64) tea.Cmd {
	return tea.Tick(m.config.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{seq: seq}
	})
}

func (m *model) pauseTick(page int, timer editor.PauseTimer) tea.Cmd {
	return tea.Tick(timer.After, func(time.Time) tea.Msg {
		return pauseMsg{page: page, seq: timer.Seq}
	})
}

// waitForChange blocks on the store's change feed and reports one event.
func (m *model) waitForChange() tea.Cmd {
	changes := m.config.Changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-changes
		if !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{at: evt.Timestamp}
	}
}
