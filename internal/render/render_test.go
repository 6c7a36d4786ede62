package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafe_BasicMarkdown(t *testing.T) {
	out := Safe("# Hello\n\nSome **bold** text.")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestSafe_PreservesLineBreaks(t *testing.T) {
	out := Safe("line one\nline two")
	assert.Contains(t, out, "<br")
}

func TestSafe_GFMTable(t *testing.T) {
	out := Safe("| Plan | Price |\n| --- | --- |\n| Basic | $10 |")
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "Basic")
}

func TestSafe_StripsScriptBlocks(t *testing.T) {
	out := Safe("hello\n\n<script>alert('pwned')</script>\n\nworld")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert('pwned')")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
}

func TestSafe_StripsEventHandlers(t *testing.T) {
	out := Safe(`<img src="x.png" onerror="alert(1)">`)
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "alert(1)")
}

func TestSafe_StripsJavascriptScheme(t *testing.T) {
	out := Safe(`<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "click")
}

func TestSafe_Total(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		"unterminated [link(",
		"<unclosed <tags <<",
	}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			Safe(in)
		})
	}
}

// The heading-marker artifact repair operates on converted HTML.
func TestSanitize_HeadingArtifacts(t *testing.T) {
	t.Run("marker run stripped", func(t *testing.T) {
		got := sanitize("<h2>## Title</h2>")
		assert.Equal(t, "<h2>Title</h2>", got)
	})
	t.Run("emptied heading removed", func(t *testing.T) {
		got := sanitize("<h2>##</h2>\n<p>body</p>")
		assert.NotContains(t, got, "<h2>")
		assert.Contains(t, got, "<p>body</p>")
	})
	t.Run("normal heading untouched", func(t *testing.T) {
		got := sanitize("<h3>Issue #4</h3>")
		assert.Equal(t, "<h3>Issue #4</h3>", got)
	})
}
