package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_ShapeEquivalence(t *testing.T) {
	payloads := map[string]any{
		"flat answer":     map[string]any{"answer": "hi"},
		"nested response": map[string]any{"response": map[string]any{"text": "hi"}},
		"array wrapped":   []any{map[string]any{"answer": "hi"}},
		"bare string":     "hi",
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			resp := Validate(Reconcile(payload))
			assert.Equal(t, "hi", resp.Answer)
		})
	}
}

// The rule table is wired at init because the wrapper extractors recurse
// back into reconciliation; verify it came up populated and ordered.
func TestShapeRules_OrderedRegistry(t *testing.T) {
	names := make([]string, 0, len(shapeRules))
	for _, r := range shapeRules {
		names = append(names, r.name)
	}
	assert.Equal(t, []string{
		"nested_response",
		"flat_answer",
		"data_wrapper",
		"array_head",
		"bare_string",
	}, names)
}

func TestReconcile_AnswerSynonyms(t *testing.T) {
	for _, key := range []string{"answer", "text", "message", "content"} {
		t.Run(key, func(t *testing.T) {
			resp := Validate(Reconcile(map[string]any{key: "value"}))
			assert.Equal(t, "value", resp.Answer)
		})
	}
}

func TestReconcile_NestedKeySynonyms(t *testing.T) {
	for _, key := range []string{"response", "result", "payload"} {
		t.Run(key, func(t *testing.T) {
			resp := Validate(Reconcile(map[string]any{
				key: map[string]any{"text": "hi"},
			}))
			assert.Equal(t, "hi", resp.Answer)
		})
	}
}

func TestReconcile_NestedResponseWins(t *testing.T) {
	payload := map[string]any{
		"answer":   "outer",
		"response": map[string]any{"text": "inner"},
	}
	resp := Validate(Reconcile(payload))
	assert.Equal(t, "inner", resp.Answer)
}

func TestReconcile_NestedMetadata(t *testing.T) {
	payload := map[string]any{
		"response": map[string]any{
			"answer": "hi",
			"related_content": []any{
				map[string]any{"title": "Docs", "url": "https://example.com"},
			},
		},
		// Sibling metadata outside the nested object is picked up when the
		// inner object lacks the field.
		"fileLinks": []any{
			map[string]any{"title": "Manual", "url": "https://example.com/m.pdf"},
		},
	}
	resp := Validate(Reconcile(payload))
	require.Len(t, resp.RelatedContent, 1)
	assert.Equal(t, "Docs", resp.RelatedContent[0].Title)
	require.Len(t, resp.FileLinks, 1)
	assert.Equal(t, "Manual", resp.FileLinks[0].Title)
}

func TestReconcile_DataWrapperRecursion(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"data": map[string]any{"answer": "deep"},
		},
	}
	resp := Validate(Reconcile(payload))
	assert.Equal(t, "deep", resp.Answer)
}

func TestReconcile_DepthCap(t *testing.T) {
	payload := any(map[string]any{"answer": "unreachable"})
	for i := 0; i < 15; i++ {
		payload = map[string]any{"data": payload}
	}

	var resp Response
	require.NotPanics(t, func() {
		resp = Validate(Reconcile(payload))
	})
	// Beyond the cap the remaining wrapper is stringified, not unwrapped.
	assert.NotEqual(t, "unreachable", resp.Answer)
	assert.Contains(t, resp.Answer, "data")
}

func TestReconcile_StringifyFallback(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		resp := Validate(Reconcile(float64(42)))
		assert.Equal(t, "42", resp.Answer)
	})
	t.Run("bool", func(t *testing.T) {
		resp := Validate(Reconcile(true))
		assert.Equal(t, "true", resp.Answer)
	})
	t.Run("nil", func(t *testing.T) {
		resp := Validate(Reconcile(nil))
		assert.Equal(t, "", resp.Answer)
	})
	t.Run("unrecognized object", func(t *testing.T) {
		resp := Validate(Reconcile(map[string]any{"foo": "bar"}))
		assert.Contains(t, resp.Answer, `"foo"`)
		assert.Contains(t, resp.Answer, `"bar"`)
	})
	t.Run("empty array", func(t *testing.T) {
		resp := Validate(Reconcile([]any{}))
		assert.Equal(t, "[]", resp.Answer)
	})
}

// Totality: reconcile then validate returns a well-formed Response for every
// decoded JSON value kind, without panicking.
func TestReconcile_Totality(t *testing.T) {
	values := []any{
		nil,
		true,
		false,
		float64(3.14),
		"plain",
		[]any{},
		[]any{nil},
		[]any{[]any{"nested"}},
		map[string]any{},
		map[string]any{"answer": 99},
		map[string]any{"response": "not an object"},
		map[string]any{"data": nil},
	}
	for _, v := range values {
		require.NotPanics(t, func() {
			_ = Validate(Reconcile(v))
		})
	}
}
