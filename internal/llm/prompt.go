package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

const whisperSystem = "You are the Imp of the Perverse, the voice that finishes a diarist's thoughts " +
	"with the dark, honest things they would rather not write. " +
	"Reply with the continuation only: lowercase, no periods, 5-15 words, never repeat the entry."

const analysisSystem = "You are the writer's Shadow Self. Read the entry and critique it: " +
	"cynical, clinical and a little gothic, like a report typed on an old typewriter. " +
	"Do not console. Do not advise."

const tagsSystem = "You are a psychoanalyst reading a private journal entry. " +
	"Identify the emotional patterns in it, such as Avoidance, Narcissism, Guilt, Longing, Resentment or Fear."

const profileSystem = "You are compiling a clinical psychological profile from a private diary. " +
	"Your tone is detached and observational."

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// clipTail keeps the last limit runes; whispers continue from where the
// writer stopped.
func clipTail(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[len(runes)-limit:])
}

func buildWhisperPrompt(entry string) string {
	return "Continue the journal entry below with the thought the writer is avoiding.\n" +
		"Output ONLY the ghost text.\n\n" +
		"Journal Entry So Far:\n" + entry + "\n\n" +
		"Your Whisper (Ghost Text):"
}

func buildAnalysisPrompt(entry string) string {
	return "Begin with \"Subject:\" or \"Observation:\". Keep it under 200 words.\n\n" +
		"Journal Entry:\n" + entry + "\n\n" +
		"Shadow Analysis:"
}

func buildTagsPrompt(entry string) string {
	return "Return ONLY a JSON array of 1-5 short tag strings, e.g. [\"Avoidance\",\"Guilt\"].\n\n" +
		"Journal Entry:\n" + entry
}

// buildProfilePrompt lists entries until limit characters are spent. It
// reports false when no entry has text.
func buildProfilePrompt(entries, tagList []string, limit int) (string, bool) {
	var b strings.Builder
	b.WriteString("Write a 200-300 word profile of the diarist from the entries and tags below. ")
	b.WriteString("Name recurring patterns and contradictions.\n\n")
	if len(tagList) > 0 {
		b.WriteString("Recurring Tags: ")
		b.WriteString(strings.Join(tagList, ", "))
		b.WriteString("\n\n")
	}
	b.WriteString("Entries:\n")
	written := 0
	for _, entry := range entries {
		entry = whitespaceRe.ReplaceAllString(strings.TrimSpace(entry), " ")
		if entry == "" {
			continue
		}
		if limit > 0 && b.Len()+len(entry) > limit {
			break
		}
		b.WriteString("- ")
		b.WriteString(entry)
		b.WriteRune('\n')
		written++
	}
	if written == 0 {
		return "", false
	}
	b.WriteString("\nProfile:")
	return b.String(), true
}

// normalizeWhisper enforces the ghost-text shape regardless of how well
// the model followed instructions: one line, lowercase, no periods, no
// wrapping quotes.
func normalizeWhisper(raw string) string {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimPrefix(text, "Your Whisper (Ghost Text):")
	text = strings.Trim(strings.TrimSpace(text), "\"'`“”")
	text = strings.ReplaceAll(text, ".", "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

func normalizeAnalysis(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "Shadow Analysis:")
	return strings.TrimSpace(text)
}

func parseTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty tags response")
	}

	candidates := []string{raw}
	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}

	for _, candidate := range candidates {
		var arr []string
		if err := json.Unmarshal([]byte(candidate), &arr); err == nil {
			if tags := sanitizeTags(arr); len(tags) > 0 {
				return tags, nil
			}
		}
		var wrapper struct {
			Tags []string `json:"tags"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapper); err == nil {
			if tags := sanitizeTags(wrapper.Tags); len(tags) > 0 {
				return tags, nil
			}
		}
	}
	return nil, fmt.Errorf("unable to parse tags payload")
}

func sanitizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimFunc(tag, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		if tag == "" {
			continue
		}
		runes := []rune(strings.ToLower(tag))
		runes[0] = unicode.ToUpper(runes[0])
		tag = string(runes)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
