// Package promptctx turns page content into the text handed to the language
// model: decoded, split into paragraphs, deduplicated and clipped to a
// per-purpose budget.
package promptctx

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/csheth/shadowscribe/internal/markup"
)

// Purpose selects which request a context is built for.
type Purpose string

const (
	// PurposeWhisper feeds the inline completion. It keeps the end of the
	// entry, where the writer paused.
	PurposeWhisper Purpose = "whisper"
	// PurposeAnalysis feeds the loose-leaf critique. It keeps the start.
	PurposeAnalysis Purpose = "analysis"
	// PurposeTags feeds emotional tagging.
	PurposeTags Purpose = "tags"
)

var defaultBudgets = map[Purpose]int{
	PurposeWhisper:  2_000,
	PurposeAnalysis: 12_000,
	PurposeTags:     6_000,
}

// Package bundles the deduplicated chunks plus per-purpose context strings.
type Package struct {
	Sections map[Purpose]string
	Chunks   []Chunk
}

// Chunk is one paragraph of the entry.
type Chunk struct {
	ID    string
	Text  string
	Start int
	End   int
}

// Builder preprocesses page content into deduplicated contexts within fixed budgets.
type Builder struct {
	budgets map[Purpose]int
}

var (
	paragraphSplit   = regexp.MustCompile(`\n{2,}`)
	whitespaceSanity = regexp.MustCompile(`\s+`)
)

// NewBuilder returns a Builder with the provided budgets, in runes. Missing
// or non-positive entries fall back to the defaults.
func NewBuilder(budgets map[Purpose]int) *Builder {
	result := make(map[Purpose]int, len(defaultBudgets))
	for kind, def := range defaultBudgets {
		if budgets != nil && budgets[kind] > 0 {
			result[kind] = budgets[kind]
			continue
		}
		result[kind] = def
	}
	return &Builder{budgets: result}
}

// Build decodes page content and emits one context string per purpose.
func (b *Builder) Build(content string) Package {
	text := sanitizeDocument(markup.ToText(content))
	paragraphs := paragraphSplit.Split(text, -1)
	seen := map[string]bool{}
	var chunks []Chunk
	cursor := 0
	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		hash := hashChunk(canonicalParagraph(trimmed))
		if seen[hash] {
			continue
		}
		seen[hash] = true
		length := runeLen(trimmed)
		chunks = append(chunks, Chunk{
			ID:    hash,
			Text:  trimmed,
			Start: cursor,
			End:   cursor + length,
		})
		cursor += length
	}

	sections := make(map[Purpose]string, len(b.budgets))
	for kind, budget := range b.budgets {
		if kind == PurposeWhisper {
			sections[kind] = clipTail(chunks, budget)
			continue
		}
		sections[kind] = clipHead(chunks, budget)
	}

	return Package{
		Sections: sections,
		Chunks:   chunks,
	}
}

// For is a shorthand for Build(content).Sections[purpose].
func (b *Builder) For(purpose Purpose, content string) string {
	return b.Build(content).Sections[purpose]
}

func sanitizeDocument(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

func canonicalParagraph(text string) string {
	return strings.ToLower(whitespaceSanity.ReplaceAllString(strings.TrimSpace(text), " "))
}

func hashChunk(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func clipHead(chunks []Chunk, budget int) string {
	if budget <= 0 {
		return ""
	}
	var builder strings.Builder
	remaining := budget
	for idx, chunk := range chunks {
		if remaining <= 0 {
			break
		}
		if idx > 0 && builder.Len() > 0 {
			if remaining <= 2 {
				break
			}
			builder.WriteString("\n\n")
			remaining -= 2
		}
		runes := []rune(chunk.Text)
		if len(runes) > remaining {
			builder.WriteString(string(runes[:remaining]))
			break
		}
		builder.WriteString(chunk.Text)
		remaining -= len(runes)
	}
	return builder.String()
}

// clipTail keeps the last budget runes, walking paragraphs from the end.
func clipTail(chunks []Chunk, budget int) string {
	if budget <= 0 {
		return ""
	}
	var parts []string
	remaining := budget
	for i := len(chunks) - 1; i >= 0 && remaining > 0; i-- {
		if len(parts) > 0 {
			if remaining <= 2 {
				break
			}
			remaining -= 2
		}
		runes := []rune(chunks[i].Text)
		if len(runes) > remaining {
			parts = append(parts, string(runes[len(runes)-remaining:]))
			break
		}
		parts = append(parts, chunks[i].Text)
		remaining -= len(runes)
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, "\n\n")
}

func runeLen(text string) int {
	return len([]rune(text))
}
