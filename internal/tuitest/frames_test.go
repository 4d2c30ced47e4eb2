package tuitest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mCover\x1b[0m   \r\n\r\n\x1b[2JPages 1-2\r\n\x1b[2J\x1b[H   \r\n")

	frames := parseFrames(raw)

	require.Len(t, frames, 2)
	assert.Equal(t, "Cover", frames[0].Plain)
	assert.Equal(t, "Pages 1-2", frames[1].Plain)
	assert.Equal(t, 1, frames[1].Index)
}

func TestParseFramesWithoutSeparator(t *testing.T) {
	frames := parseFrames([]byte("\x1b]0;title\x07plain text"))

	require.Len(t, frames, 1)
	assert.Equal(t, "plain text", frames[0].Plain)
}

func TestLastFrameContaining(t *testing.T) {
	rec := &Recording{Frames: []Frame{
		{Index: 0, Plain: "Cover\nREADING"},
		{Index: 1, Plain: "Contents\nREADING"},
		{Index: 2, Plain: "Pages 1-2\nWRITING"},
	}}

	frame, ok := rec.LastFrameContaining("READING")
	require.True(t, ok)
	assert.Equal(t, 1, frame.Index)

	frame, ok = rec.LastFrameContaining("Cover", "READING")
	require.True(t, ok)
	assert.Equal(t, 0, frame.Index)

	_, ok = rec.LastFrameContaining("Cover", "WRITING")
	assert.False(t, ok)

	last, ok := rec.FinalFrame()
	require.True(t, ok)
	assert.Equal(t, 2, last.Index)
}

func TestNilRecording(t *testing.T) {
	var rec *Recording
	_, ok := rec.FinalFrame()
	assert.False(t, ok)
	_, ok = rec.LastFrameContaining("x")
	assert.False(t, ok)
}

func TestTerminalResponderAnswersQueries(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)

	tr.Process([]byte("hello\x1b[6"))
	assert.Empty(t, out.String())

	tr.Process([]byte("n\x1b]11;?\x07"))
	assert.Equal(t, "\x1b[1;1R\x1b]11;rgb:1c1c/1818/1414\x07", out.String())
}

func TestTerminalResponderKeepsQueryOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)

	tr.Process([]byte("\x1b]11;?\x1b\\\x1b[c\x1b[?2026$p\x1b[6n"))
	assert.Equal(t,
		"\x1b]11;rgb:1c1c/1818/1414\x1b\\\x1b[?62;22c\x1b[?2026;2$y\x1b[1;1R",
		out.String())
}

func TestTerminalResponderIgnoresOtherOutput(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)

	tr.Process([]byte(strings.Repeat("page text \x1b[2J\x1b[H", 40)))
	assert.Empty(t, out.String())
	assert.Less(t, len(tr.buf), longestQuery)

	tr.Process([]byte("\x1b[?2027"))
	tr.Process([]byte("$p"))
	assert.Equal(t, "\x1b[?2027;0$y", out.String())
}

func TestStepHelpers(t *testing.T) {
	assert.Equal(t, Step{Input: []byte("dear diary")}, Type("dear diary"))
	assert.Equal(t, Step{Delay: 5}, Wait(5))
	assert.Equal(t, Step{Delay: 5, Input: KeyRight}, Press(5, KeyRight))
}
