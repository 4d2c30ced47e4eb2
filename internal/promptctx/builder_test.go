package promptctx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDecodesAndDeduplicates(t *testing.T) {
	builder := NewBuilder(nil)
	content := strings.Join([]string{
		"I keep dreaming about the house.",
		"",
		"It&#39;s always raining there.",
		"",
		"i keep  dreaming about the house.",
		"",
		"The door is open &amp; I never go in",
	}, "<br>")

	pkg := builder.Build(content)
	require.Len(t, pkg.Chunks, 3)
	assert.Equal(t, "It's always raining there.", pkg.Chunks[1].Text)

	analysis := pkg.Sections[PurposeAnalysis]
	assert.Equal(t, 1, strings.Count(strings.ToLower(analysis), "dreaming"))
	assert.Contains(t, analysis, "open & I never")
}

func TestBuilderWhisperKeepsTail(t *testing.T) {
	builder := NewBuilder(map[Purpose]int{PurposeWhisper: 20})
	content := "First paragraph that is long.<br><br>and then I"

	got := builder.For(PurposeWhisper, content)
	assert.True(t, strings.HasSuffix(got, "and then I"), "got %q", got)
	assert.LessOrEqual(t, len([]rune(got)), 20)
}

func TestBuilderRespectsBudgets(t *testing.T) {
	budgets := map[Purpose]int{
		PurposeWhisper:  30,
		PurposeAnalysis: 40,
		PurposeTags:     50,
	}
	builder := NewBuilder(budgets)
	var paragraphs []string
	for i := 0; i < 6; i++ {
		paragraphs = append(paragraphs, strings.Repeat(string(rune('a'+i)), 25))
	}
	pkg := builder.Build(strings.Join(paragraphs, "<br><br>"))
	for kind, limit := range budgets {
		got := len([]rune(pkg.Sections[kind]))
		assert.LessOrEqual(t, got, limit, "%s exceeded budget", kind)
		assert.Positive(t, got, "%s empty", kind)
	}
}

func TestBuilderEmptyContent(t *testing.T) {
	pkg := NewBuilder(nil).Build("")
	assert.Empty(t, pkg.Chunks)
	assert.Empty(t, pkg.Sections[PurposeWhisper])
	assert.Empty(t, pkg.Sections[PurposeAnalysis])
}
