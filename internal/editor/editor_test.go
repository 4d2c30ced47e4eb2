package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	changes  []string
	pauses   int
	accepted []string
	discards int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnChange:  func(c string) { r.changes = append(r.changes, c) },
		OnPause:   func() { r.pauses++ },
		OnAccept:  func(t string) { r.accepted = append(r.accepted, t) },
		OnDiscard: func() { r.discards++ },
	}
}

func newFocused(t *testing.T, content string) (*Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := New(time.Second, rec.callbacks())
	require.True(t, e.SetContent(content))
	e.Focus()
	return e, rec
}

func typeString(e *Editor, s string) {
	for _, r := range s {
		e.HandleKey(Runes(string(r)))
	}
}

func countGhosts(e *Editor) int {
	if _, ok := e.Ghost(); ok {
		return 1
	}
	return 0
}

func TestSetContentPlacesCaretAtEnd(t *testing.T) {
	e, _ := newFocused(t, "dear<br>diary")
	assert.Equal(t, "dear\ndiary", e.Text())
	assert.Equal(t, 10, e.Caret())
	assert.Equal(t, "dear<br>diary", e.Value())
}

func TestTypingPublishesChangesAndRestartsTimer(t *testing.T) {
	e, rec := newFocused(t, "")

	res := e.HandleKey(Runes("h"))
	require.True(t, res.Handled)
	require.NotNil(t, res.Timer)
	first := res.Timer.Seq
	assert.Equal(t, time.Second, res.Timer.After)

	res = e.HandleKey(Runes("i"))
	require.NotNil(t, res.Timer)
	assert.Greater(t, res.Timer.Seq, first)

	assert.Equal(t, []string{"h", "hi"}, rec.changes)
	assert.True(t, e.Typing())

	assert.False(t, e.Pause(first), "superseded timer ignored")
	assert.Equal(t, 0, rec.pauses)

	assert.True(t, e.Pause(res.Timer.Seq))
	assert.Equal(t, 1, rec.pauses)
	assert.False(t, e.Typing())
	assert.False(t, e.Pause(res.Timer.Seq), "fires once")
}

func TestSetContentIgnoredWhileTyping(t *testing.T) {
	e, _ := newFocused(t, "abc")
	res := e.HandleKey(Runes("d"))

	assert.False(t, e.SetContent("external"))
	assert.Equal(t, "abcd", e.Text())

	e.Pause(res.Timer.Seq)
	assert.True(t, e.SetContent("external"))
	assert.Equal(t, "external", e.Text())
}

func TestShowSuggestionPlacesGhostAfterCaret(t *testing.T) {
	e, _ := newFocused(t, "I feel")
	require.True(t, e.ShowSuggestion(" watched"))

	g, ok := e.Ghost()
	require.True(t, ok)
	assert.Equal(t, " watched", g.Text)
	assert.Equal(t, 6, g.Anchor)
	assert.Equal(t, 6, e.Caret(), "caret stays before the ghost")
	assert.Equal(t, "I feel", e.Value(), "ghost is not committed")

	before, ghost, after := e.Segments()
	assert.Equal(t, "I feel", before)
	assert.Equal(t, " watched", ghost)
	assert.Empty(t, after)
}

func TestShowSuggestionMidText(t *testing.T) {
	e, _ := newFocused(t, "ab")
	e.HandleKey(Named(KeyLeft))
	require.True(t, e.ShowSuggestion("X"))

	g, _ := e.Ghost()
	assert.Equal(t, 1, g.Anchor)
	before, ghost, after := e.Segments()
	assert.Equal(t, []string{"a", "X", "b"}, []string{before, ghost, after})
}

func TestShowSuggestionTwiceKeepsOneGhost(t *testing.T) {
	e, _ := newFocused(t, "text")
	require.True(t, e.ShowSuggestion("one"))
	require.True(t, e.ShowSuggestion("two"))

	assert.Equal(t, 1, countGhosts(e))
	g, _ := e.Ghost()
	assert.Equal(t, "two", g.Text)
}

func TestShowSuggestionRequiresCaret(t *testing.T) {
	rec := &recorder{}
	e := New(time.Second, rec.callbacks())
	e.SetContent("text")

	assert.False(t, e.ShowSuggestion("ignored"), "unfocused")
	assert.Equal(t, 0, countGhosts(e))

	e.Focus()
	assert.False(t, e.ShowSuggestion("   "), "blank")
	assert.Equal(t, 0, countGhosts(e))
}

func TestAcceptLaw(t *testing.T) {
	e, rec := newFocused(t, "the door")
	e.HandleKey(Named(KeyWordLeft))
	caret := e.Caret()
	require.Equal(t, 4, caret)

	require.True(t, e.ShowSuggestion("locked "))
	res := e.HandleKey(Named(KeyTab))

	assert.True(t, res.Handled, "tab is consumed")
	require.NotNil(t, res.Timer)
	assert.Equal(t, "the locked door", e.Text())
	assert.Equal(t, caret+len("locked "), e.Caret())
	assert.Equal(t, 0, countGhosts(e))
	assert.Equal(t, []string{"locked "}, rec.accepted)
	assert.Equal(t, 0, rec.discards)
	require.NotEmpty(t, rec.changes)
	assert.Equal(t, "the locked door", rec.changes[len(rec.changes)-1])
}

func TestDiscardLaw(t *testing.T) {
	e, rec := newFocused(t, "")
	require.True(t, e.ShowSuggestion("you are alone"))

	res := e.HandleKey(Runes("x"))

	assert.True(t, res.Handled)
	assert.Equal(t, "x", e.Text())
	assert.Equal(t, 0, countGhosts(e))
	assert.Equal(t, 1, rec.discards)
	assert.Empty(t, rec.accepted)
}

func TestNavigationKeyDiscardsGhost(t *testing.T) {
	e, rec := newFocused(t, "abc")
	require.True(t, e.ShowSuggestion("def"))

	e.HandleKey(Named(KeyLeft))
	assert.Equal(t, 0, countGhosts(e))
	assert.Equal(t, 1, rec.discards)
	assert.Equal(t, 2, e.Caret())
	assert.Equal(t, "abc", e.Text())
}

func TestModifierKeysKeepGhost(t *testing.T) {
	e, rec := newFocused(t, "abc")
	require.True(t, e.ShowSuggestion("def"))

	for _, k := range []KeyName{KeyShift, KeyCtrl, KeyAlt, KeyMeta} {
		res := e.HandleKey(Named(k))
		assert.False(t, res.Handled)
	}
	assert.Equal(t, 1, countGhosts(e))
	assert.Equal(t, 0, rec.discards)
}

func TestTabWithoutGhostIsNotHandled(t *testing.T) {
	e, _ := newFocused(t, "abc")
	res := e.HandleKey(Named(KeyTab))
	assert.False(t, res.Handled)
	assert.Equal(t, "abc", e.Text())
}

func TestBlurDiscardsAndStopsPause(t *testing.T) {
	e, rec := newFocused(t, "")
	res := e.HandleKey(Runes("a"))
	require.True(t, e.ShowSuggestion("ghost"))

	e.Blur()
	assert.False(t, e.Focused())
	assert.False(t, e.Typing())
	assert.Equal(t, 0, countGhosts(e))
	assert.Equal(t, 1, rec.discards)
	assert.False(t, e.Pause(res.Timer.Seq))
	assert.Equal(t, 0, rec.pauses)
}

func TestCloseSweepsAndSilences(t *testing.T) {
	e, rec := newFocused(t, "abc")
	res := e.HandleKey(Runes("d"))
	require.True(t, e.ShowSuggestion("ghost"))

	e.Close()
	assert.Equal(t, 0, countGhosts(e))
	assert.False(t, e.Pause(res.Timer.Seq))
	assert.False(t, e.ShowSuggestion("again"))
	assert.False(t, e.HandleKey(Runes("x")).Handled)
	assert.Equal(t, 0, rec.pauses)
	assert.Equal(t, "abcd", e.Text())
}

func TestEditingKeys(t *testing.T) {
	e, _ := newFocused(t, "")
	typeString(e, "one")
	e.HandleKey(Named(KeyEnter))
	typeString(e, "two")
	assert.Equal(t, "one<br>two", e.Value())

	e.HandleKey(Named(KeyUp))
	assert.Equal(t, 3, e.Caret())
	e.HandleKey(Named(KeyHome))
	assert.Equal(t, 0, e.Caret())
	e.HandleKey(Named(KeyDelete))
	assert.Equal(t, "ne\ntwo", e.Text())
	e.HandleKey(Named(KeyEnd))
	assert.Equal(t, 2, e.Caret())
	e.HandleKey(Named(KeyDown))
	assert.Equal(t, 5, e.Caret())
	e.HandleKey(Named(KeyBackspace))
	assert.Equal(t, "ne\nto", e.Text())
	e.HandleKey(Named(KeySpace))
	assert.Equal(t, "ne\nt o", e.Text())

	e.HandleKey(Named(KeyHome))
	e.HandleKey(Named(KeyHome))
	res := e.HandleKey(Named(KeyBackspace))
	assert.True(t, res.Handled)
	assert.Equal(t, "net o", e.Text())
	assert.Equal(t, 2, e.Caret())
}

func TestWordAndEdgeMotion(t *testing.T) {
	e, _ := newFocused(t, "  one two\nthree")

	e.HandleKey(Named(KeyUp))
	assert.Equal(t, 5, e.Caret(), "up keeps the column")
	e.HandleKey(Named(KeyUp))
	assert.Equal(t, 0, e.Caret(), "up on the first line goes to the start")

	e.HandleKey(Named(KeyWordRight))
	assert.Equal(t, 5, e.Caret())
	e.HandleKey(Named(KeyWordRight))
	assert.Equal(t, 9, e.Caret())

	e.HandleKey(Named(KeyWordLeft))
	assert.Equal(t, 6, e.Caret())
	e.HandleKey(Named(KeyWordLeft))
	assert.Equal(t, 2, e.Caret())
	e.HandleKey(Named(KeyWordLeft))
	assert.Equal(t, 0, e.Caret(), "only blanks before the caret")

	e.HandleKey(Named(KeyDown))
	e.HandleKey(Named(KeyDown))
	assert.Equal(t, len([]rune(e.Text())), e.Caret(), "down on the last line goes to the end")
}

func TestUnknownChordsLeaveTextAlone(t *testing.T) {
	e, rec := newFocused(t, "abc")
	res := e.HandleKey(ParseKey("alt+a", []rune{'a'}))
	assert.False(t, res.Handled)
	assert.Nil(t, res.Timer)
	assert.Equal(t, "abc", e.Text())
	assert.Empty(t, rec.changes)
}

func TestNoOpEditsDoNotPublish(t *testing.T) {
	e, rec := newFocused(t, "ab")
	e.HandleKey(Named(KeyHome))
	res := e.HandleKey(Named(KeyBackspace))
	assert.True(t, res.Handled)
	assert.Nil(t, res.Timer)
	assert.Empty(t, rec.changes)
	assert.False(t, e.Typing())
}

func TestEscapesHTML(t *testing.T) {
	e, _ := newFocused(t, "")
	typeString(e, "<b>&")
	assert.Equal(t, "&lt;b&gt;&amp;", e.Value())
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, Named(KeyTab), ParseKey("tab", nil))
	assert.Equal(t, Named(KeySpace), ParseKey(" ", []rune{' '}))
	assert.Equal(t, Runes("é"), ParseKey("é", []rune("é")))
	assert.Equal(t, Named(KeyWordLeft), ParseKey("ctrl+left", nil))
	assert.Equal(t, KeyName("ctrl+x"), ParseKey("ctrl+x", nil).Name)
	assert.Equal(t, Named(KeyWordRight), ParseKey("alt+f", []rune{'f'}))
	assert.Equal(t, Key{Name: "alt+a"}, ParseKey("alt+a", []rune{'a'}))
	assert.True(t, Named(KeyShift).IsModifier())
	assert.False(t, Runes("a").IsModifier())
}
