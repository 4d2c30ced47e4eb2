package guide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_PersonalizesSteps(t *testing.T) {
	steps := Build(Metadata{Pages: 1, Shadow: "Ollama (m)", Pause: "3s"})
	require.Len(t, steps, 5)

	assert.Contains(t, steps[0].Description, "your 1 written page;")
	assert.Contains(t, steps[2].Description, "Stop typing for 3s and Ollama (m) whispers")
}

func TestBuild_WithoutShadow(t *testing.T) {
	steps := Build(Metadata{})

	assert.NotContains(t, steps[0].Description, "written")
	assert.Contains(t, steps[0].Description, "fills in as you start")
	assert.Contains(t, steps[2].Description, "No shadow is listening")
}

func TestMarkdown_NumbersSteps(t *testing.T) {
	md := Markdown(Build(Metadata{Pages: 3}))

	assert.True(t, strings.HasPrefix(md, "# How to use this diary"))
	assert.Contains(t, md, "1. **Turning pages**")
	assert.Contains(t, md, "5. **Leaving**")
	assert.Contains(t, md, "3 written pages")
}
