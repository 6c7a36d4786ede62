package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(nil)

	resp := n.Normalize(map[string]any{"response": map[string]any{"message": "hi"}})
	assert.Equal(t, "hi", resp.Answer)

	stats := n.Stats()
	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, int64(0), stats.Fallbacks)
}

func TestNormalizer_FallbackCounted(t *testing.T) {
	n := NewNormalizer(nil)
	n.Normalize(map[string]any{"unknown": "shape"})
	assert.Equal(t, int64(1), n.Stats().Fallbacks)
}

func TestNormalizer_DroppedFieldsCounted(t *testing.T) {
	n := NewNormalizer(nil)
	n.Normalize(map[string]any{
		"answer": "a",
		"fileLinks": []any{
			map[string]any{"title": "ok", "url": "https://x.example"},
			map[string]any{"title": "broken"},
		},
	})
	assert.Equal(t, int64(1), n.Stats().DroppedFields)
}

func TestNormalizer_TextReentersJSONPipeline(t *testing.T) {
	n := NewNormalizer(nil)

	resp := n.NormalizeText(`  {"response": {"text": "hi"}}  `)
	assert.Equal(t, "hi", resp.Answer)
}

func TestNormalizer_TextJSONParseFailureFallsToRepair(t *testing.T) {
	n := NewNormalizer(nil)

	// Brace-delimited but not valid JSON: treated as prose.
	resp := n.NormalizeText("{definitely not json}")
	assert.Equal(t, "{definitely not json}", resp.Answer)
}

func TestNormalizer_TextRepairsMarkdown(t *testing.T) {
	n := NewNormalizer(nil)

	resp := n.NormalizeText("Steps:\n•   first\n•   second")
	assert.Equal(t, "Steps:\n\n- first\n- second", resp.Answer)
}
