package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowbot/internal/response"
)

func TestMarkdown_Export(t *testing.T) {
	resp := response.Response{
		Answer: "Our plans are below.\n\n[TABLE:Pricing]",
		Tables: []response.Table{{
			Title:   "Pricing",
			Headers: []string{"Plan", "Price"},
			Rows:    [][]string{{"Basic", "$10"}},
		}},
		Recommendations: []string{"ask about discounts"},
		RelatedContent: []response.RelatedItem{
			{Title: "Plans overview", URL: "https://kb.example/plans"},
		},
		FileLinks: []response.FileLink{
			{Title: "Price sheet", URL: "https://kb.example/prices.pdf"},
		},
	}

	data, err := Markdown{}.Export("What do plans cost?", resp)
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "# What do plans cost?")
	// The exporter runs its own placeholder expansion.
	assert.NotContains(t, doc, "[TABLE:")
	assert.Contains(t, doc, "| Plan | Price |")
	assert.Contains(t, doc, "| Basic | $10 |")
	assert.Contains(t, doc, "- ask about discounts")
	assert.Contains(t, doc, "[Plans overview](https://kb.example/plans)")
	assert.Contains(t, doc, "[Price sheet](https://kb.example/prices.pdf)")
}

func TestMarkdown_Extension(t *testing.T) {
	assert.Equal(t, ".md", Markdown{}.Extension())
}

func TestMarkdown_EmptyResponse(t *testing.T) {
	data, err := Markdown{}.Export("", response.Response{})
	require.NoError(t, err)
	assert.Equal(t, "\n", string(data))
}
