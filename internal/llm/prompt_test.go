package llm

import (
	"strings"
	"testing"
)

func TestNormalizeWhisper(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"and then you left.", "and then you left"},
		{"Your Whisper (Ghost Text): But Why?", "but why?"},
		{"“nobody. noticed.”", "nobody noticed"},
		{"  first line\nsecond line", "first line"},
		{"", ""},
		{"spaced    out\twords", "spaced out words"},
	}
	for _, tc := range cases {
		if got := normalizeWhisper(tc.in); got != tc.want {
			t.Fatalf("normalizeWhisper(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseTags(t *testing.T) {
	got, err := parseTags(`{"tags":["longing","Fear."]}`)
	if err != nil {
		t.Fatalf("parse wrapper: %v", err)
	}
	if strings.Join(got, ",") != "Longing,Fear" {
		t.Fatalf("unexpected tags: %v", got)
	}

	if _, err := parseTags("no json here"); err == nil {
		t.Fatal("expected error for unparseable payload")
	}
	if _, err := parseTags(`[]`); err == nil {
		t.Fatal("expected error for empty array")
	}
}

func TestClipTailKeepsEnd(t *testing.T) {
	if got := clipTail("abcdef", 3); got != "def" {
		t.Fatalf("unexpected tail: %q", got)
	}
	if got := clipText("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected head: %q", got)
	}
}

func TestBuildProfilePromptRespectsLimit(t *testing.T) {
	entries := []string{strings.Repeat("a", 50), strings.Repeat("b", 50)}
	prompt, ok := buildProfilePrompt(entries, nil, 200)
	if !ok {
		t.Fatal("expected prompt")
	}
	if strings.Contains(prompt, "bbbb") {
		t.Fatalf("second entry should not fit: %s", prompt)
	}
	if _, ok := buildProfilePrompt([]string{" "}, nil, 0); ok {
		t.Fatal("expected no prompt for blank entries")
	}
}
