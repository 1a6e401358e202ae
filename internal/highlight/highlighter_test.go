package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguage(t *testing.T) {
	assert.Equal(t, "Go", Language("go", "package main"))
	assert.Equal(t, "Python", Language("python", ""))
	assert.NotEmpty(t, Language("", "plain words"))
}

func TestHighlightKeepsText(t *testing.T) {
	h := New("monokai")
	out := h.Highlight("x := 1", "go")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "1")
}

func TestPreviewCuts(t *testing.T) {
	h := New("no-such-style")

	long := strings.Repeat("a", 80)
	out := h.Preview(long, "text", 60)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.NotContains(t, out, strings.Repeat("a", 61))

	out = h.Preview("first\nsecond", "text", 60)
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "second")
	assert.True(t, strings.HasSuffix(out, "..."))

	out = h.Preview("short", "text", 60)
	assert.False(t, strings.HasSuffix(out, "..."))
}
