package response

import (
	"fmt"
	"strconv"
)

// =============================================================================
// RESPONSE VALIDATOR
// =============================================================================
// Validation is a filter, not a gate. Each optional field survives only if it
// is a sequence, and each element survives only if it satisfies the per-entity
// invariants. A malformed element is dropped; the rest of the list is kept in
// order. Validate never fails: structurally invalid input degrades to omitted
// fields.

// Validate produces a canonical Response from a raw candidate record.
func Validate(cand RawCandidate) Response {
	return Response{
		Answer:          asString(cand["answer"]),
		RelatedContent:  validRelatedItems(cand["relatedContent"]),
		Recommendations: validStrings(cand["recommendations"]),
		FileLinks:       validFileLinks(cand["fileLinks"]),
		Tables:          validTables(cand["tables"]),
	}
}

// asString coerces the answer value: non-string or absent becomes "".
func asString(v any) string {
	s, _ := v.(string)
	return s
}

func validRelatedItems(v any) []RelatedItem {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var items []RelatedItem
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		title, _ := obj["title"].(string)
		url, _ := obj["url"].(string)
		if title == "" || url == "" {
			continue
		}
		image, _ := obj["image"].(string)
		items = append(items, RelatedItem{Title: title, URL: url, Image: image})
	}
	return items
}

func validStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, el := range arr {
		if s, ok := el.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validFileLinks(v any) []FileLink {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var links []FileLink
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		title, _ := obj["title"].(string)
		url, _ := obj["url"].(string)
		if title == "" || url == "" {
			continue
		}
		links = append(links, FileLink{Title: title, URL: url})
	}
	return links
}

func validTables(v any) []Table {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var tables []Table
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		title, ok := obj["title"].(string)
		if !ok {
			continue
		}
		tables = append(tables, Table{
			Title:   title,
			Headers: cellStrings(obj["headers"]),
			Rows:    tableRows(obj["rows"]),
		})
	}
	return tables
}

// tableRows keeps every row that is itself a sequence. Row lengths are not
// reconciled against the header count; rendering tolerates the mismatch.
func tableRows(v any) [][]string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var rows [][]string
	for _, el := range arr {
		if _, ok := el.([]any); !ok {
			continue
		}
		rows = append(rows, cellStrings(el))
	}
	return rows
}

// cellStrings extracts displayable cell values from a sequence. Strings pass
// through; scalar values are stringified; nested containers are dropped.
func cellStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var cells []string
	for _, el := range arr {
		if s, ok := cellString(el); ok {
			cells = append(cells, s)
		}
	}
	return cells
}

func cellString(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		return c, true
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64), true
	case int:
		return strconv.Itoa(c), true
	case int64:
		return strconv.FormatInt(c, 10), true
	case bool:
		return strconv.FormatBool(c), true
	case nil:
		return "", true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprintf("%v", c), true
	}
}
