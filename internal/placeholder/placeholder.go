// Package placeholder expands [TABLE:<title>] and [ICON:<name>] tokens in
// answer markdown against structured side-data. Expansion is pure and total:
// unknown tokens never survive as errors, and unreferenced side-data is
// silently dropped.
package placeholder

import (
	"regexp"
	"strings"

	"knowbot/internal/response"
)

// Expand substitutes table placeholders from the given side-data, then icon
// placeholders from the fixed registry.
func Expand(markdown string, tables []response.Table) string {
	out := expandTables(markdown, tables)
	return expandIcons(out)
}

// expandTables replaces the first occurrence of each table's exact
// [TABLE:<title>] token with a generated markdown block. Repeated identical
// tokens beyond the first stay literal; tables whose token is absent are
// dropped, never appended elsewhere.
func expandTables(s string, tables []response.Table) string {
	for _, t := range tables {
		token := "[TABLE:" + t.Title + "]"
		if !strings.Contains(s, token) {
			continue
		}
		s = strings.Replace(s, token, renderTable(t), 1)
	}
	return s
}

// renderTable generates a GFM table block: bold caption, header row when
// headers are non-empty, one row per data row. A row shorter than the header
// list renders only its available cells; no padding, no error.
func renderTable(t response.Table) string {
	var b strings.Builder
	b.WriteString("\n\n")
	if t.Title != "" {
		b.WriteString("**" + escapeCell(t.Title) + "**\n\n")
	}
	if len(t.Headers) > 0 {
		b.WriteString("|")
		for _, h := range t.Headers {
			b.WriteString(" " + escapeCell(h) + " |")
		}
		b.WriteString("\n|")
		for range t.Headers {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
	}
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" " + escapeCell(cell) + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// escapeCell keeps cell content from breaking table syntax.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// iconRegistry is the fixed closed set of inline icon fragments. Fragments
// are plain text so they survive both terminal and HTML rendering.
var iconRegistry = map[string]string{
	"location": "📍",
	"phone":    "☎",
	"mobile":   "📱",
	"email":    "✉",
	"globe":    "🌐",
	"clock":    "🕐",
}

var iconToken = regexp.MustCompile(`\[ICON:([^\]]*)\]`)

// expandIcons replaces every [ICON:<name>] token with its registry fragment.
// The name is trimmed of surrounding whitespace before lookup; unknown names
// yield an empty fragment so the raw token is never left visible.
func expandIcons(s string) string {
	return iconToken.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(m, "[ICON:"), "]"))
		return iconRegistry[name]
	})
}
