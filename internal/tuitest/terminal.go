package tuitest

import (
	"bytes"
	"io"
)

// reply answers one query the diary writes to its terminal.
type reply struct {
	query  string
	answer string
}

// terminalReplies are the startup queries of the diary: cursor position,
// color queries from lipgloss and glamour (BEL and ST terminated), the DA1
// sentinel termenv sends after them, and DECRQM for synchronized output and
// grapheme clustering. The colors describe a dark terminal.
var terminalReplies = []reply{
	{query: "\x1b[6n", answer: "\x1b[1;1R"},
	{query: "\x1b]10;?\x07", answer: "\x1b]10;rgb:cccc/cccc/cccc\x07"},
	{query: "\x1b]10;?\x1b\\", answer: "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
	{query: "\x1b]11;?\x07", answer: "\x1b]11;rgb:1c1c/1818/1414\x07"},
	{query: "\x1b]11;?\x1b\\", answer: "\x1b]11;rgb:1c1c/1818/1414\x1b\\"},
	{query: "\x1b[c", answer: "\x1b[?62;22c"},
	{query: "\x1b[?2026$p", answer: "\x1b[?2026;2$y"},
	{query: "\x1b[?2027$p", answer: "\x1b[?2027;0$y"},
}

// longestQuery bounds how much unmatched output is kept between reads.
var longestQuery = func() int {
	n := 0
	for _, r := range terminalReplies {
		n = max(n, len(r.query))
	}
	return n
}()

// terminalResponder plays the terminal side of a PTY session. Queries are
// answered in the order they appear, even when split across reads.
type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for {
		r, end, ok := tr.next()
		if !ok {
			break
		}
		tr.buf = tr.buf[end:]
		_, _ = io.WriteString(tr.w, r.answer)
	}
	if keep := longestQuery - 1; len(tr.buf) > keep {
		tr.buf = append(tr.buf[:0], tr.buf[len(tr.buf)-keep:]...)
	}
}

// next finds the earliest complete query in the buffer and the offset just
// past it.
func (tr *terminalResponder) next() (reply, int, bool) {
	best, at := -1, len(tr.buf)
	for i, r := range terminalReplies {
		idx := bytes.Index(tr.buf, []byte(r.query))
		if idx >= 0 && idx < at {
			best, at = i, idx
		}
	}
	if best < 0 {
		return reply{}, 0, false
	}
	r := terminalReplies[best]
	return r, at + len(r.query), true
}
