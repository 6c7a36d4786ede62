package response

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// SHAPE RECONCILER
// =============================================================================
// The backend replies in one of several known layouts. Reconciliation is an
// ordered table of shape rules; the first rule whose predicate matches wins.
// New shapes are added by appending a rule, not by touching existing ones.
// Reconcile never fails: an unrecognized payload falls through to the
// stringification rule instead of signaling an error.

// maxReconcileDepth caps recursion through "data" wrappers and array heads so
// a self-referential payload cannot hang the pipeline. Beyond the cap the
// stringification fallback applies.
const maxReconcileDepth = 10

// answerKeys are the accepted spellings of the answer field, in precedence
// order.
var answerKeys = []string{"answer", "text", "message", "content"}

// responseKeys are the accepted names of the nested reply object.
var responseKeys = []string{"response", "result", "payload"}

// metadataKeys maps each canonical optional field to its accepted spellings.
var metadataKeys = map[string][]string{
	"relatedContent":  {"relatedContent", "related_content", "related"},
	"recommendations": {"recommendations", "suggestions"},
	"fileLinks":       {"fileLinks", "file_links", "files"},
	"tables":          {"tables"},
}

// shapeRule pairs a predicate with an extractor. Extractors receive the
// current recursion depth so wrapper shapes can recurse safely.
type shapeRule struct {
	name    string
	matches func(payload any) bool
	extract func(payload any, depth int) RawCandidate
}

// shapeRules is populated in init: the wrapper extractors recurse back into
// reconcileNamed, and a direct composite literal would make the variable's
// initializer refer to itself.
var shapeRules []shapeRule

func init() {
	shapeRules = []shapeRule{
		{
			name:    "nested_response",
			matches: hasNestedResponse,
			extract: extractNestedResponse,
		},
		{
			name:    "flat_answer",
			matches: hasFlatAnswer,
			extract: extractFlatAnswer,
		},
		{
			name: "data_wrapper",
			matches: func(payload any) bool {
				obj, ok := payload.(map[string]any)
				if !ok {
					return false
				}
				_, ok = obj["data"]
				return ok
			},
			extract: func(payload any, depth int) RawCandidate {
				return reconcileAt(payload.(map[string]any)["data"], depth+1)
			},
		},
		{
			name: "array_head",
			matches: func(payload any) bool {
				arr, ok := payload.([]any)
				return ok && len(arr) > 0
			},
			extract: func(payload any, depth int) RawCandidate {
				return reconcileAt(payload.([]any)[0], depth+1)
			},
		},
		{
			name: "bare_string",
			matches: func(payload any) bool {
				_, ok := payload.(string)
				return ok
			},
			extract: func(payload any, _ int) RawCandidate {
				return RawCandidate{"answer": payload}
			},
		},
	}
}

// Reconcile detects which known shape the decoded payload matches and
// extracts a raw candidate record from it. It is side-effect free and total.
func Reconcile(payload any) RawCandidate {
	cand, _ := reconcile(payload)
	return cand
}

// reconcile additionally reports the name of the rule that matched, for
// diagnostic logging by the Normalizer.
func reconcile(payload any) (RawCandidate, string) {
	return reconcileNamed(payload, 0)
}

func reconcileAt(payload any, depth int) RawCandidate {
	cand, _ := reconcileNamed(payload, depth)
	return cand
}

func reconcileNamed(payload any, depth int) (RawCandidate, string) {
	if depth >= maxReconcileDepth {
		return stringifyCandidate(payload), "depth_fallback"
	}
	for _, rule := range shapeRules {
		if rule.matches(payload) {
			return rule.extract(payload, depth), rule.name
		}
	}
	return stringifyCandidate(payload), "stringify_fallback"
}

func hasNestedResponse(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range responseKeys {
		if _, ok := obj[key].(map[string]any); ok {
			return true
		}
	}
	return false
}

func extractNestedResponse(payload any, _ int) RawCandidate {
	obj := payload.(map[string]any)
	var inner map[string]any
	for _, key := range responseKeys {
		if m, ok := obj[key].(map[string]any); ok {
			inner = m
			break
		}
	}

	cand := RawCandidate{}
	if v, ok := firstPresent(inner, answerKeys); ok {
		cand["answer"] = v
	}
	// Metadata lives next to the answer inside the nested object; the outer
	// object is consulted only for fields the inner one lacks.
	for field, keys := range metadataKeys {
		if v, ok := firstPresent(inner, keys); ok {
			cand[field] = v
		} else if v, ok := firstPresent(obj, keys); ok {
			cand[field] = v
		}
	}
	return cand
}

func hasFlatAnswer(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	_, ok = firstPresent(obj, answerKeys)
	return ok
}

func extractFlatAnswer(payload any, _ int) RawCandidate {
	obj := payload.(map[string]any)
	cand := RawCandidate{}
	if v, ok := firstPresent(obj, answerKeys); ok {
		cand["answer"] = v
	}
	for field, keys := range metadataKeys {
		if v, ok := firstPresent(obj, keys); ok {
			cand[field] = v
		}
	}
	return cand
}

// firstPresent returns the value of the first key present in obj, in the
// given precedence order.
func firstPresent(obj map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// stringifyCandidate is the terminal fallback: the whole payload becomes the
// answer text in a human-readable form.
func stringifyCandidate(payload any) RawCandidate {
	return RawCandidate{"answer": stringify(payload)}
}

func stringify(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			// Unserializable containers (cycles, non-JSON values) degrade
			// to an empty answer rather than risking a runaway Sprintf.
			return ""
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
