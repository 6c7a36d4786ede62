// Package repair turns markdown-like prose with inconsistent formatting into
// well-formed markdown. Every rule is a pure, idempotent string transform;
// the engine never fails and never depends on external state.
package repair

import (
	"regexp"
	"strings"
)

// rule is one deterministic rewrite step. Rules run in declaration order and
// each one is independently testable.
type rule struct {
	name string
	fn   func(string) string
}

var rules = []rule{
	{"normalize_newlines", normalizeNewlines},
	{"normalize_bullet_glyphs", normalizeBulletGlyphs},
	{"separate_list_blocks", separateListBlocks},
	{"canonicalize_lines", canonicalizeLines},
	{"heading_spacing", fixHeadingSpacing},
	{"collapse_duplicate_headings", collapseDuplicateHeadings},
}

// Markdown applies the full repair pipeline and trims blank edges. Applying
// it twice yields the same output as applying it once.
func Markdown(raw string) string {
	s := raw
	for _, r := range rules {
		s = r.fn(s)
	}
	return trimBlankEdges(s)
}

// trimBlankEdges removes leading blank lines and trailing whitespace while
// keeping the first content line's indentation, which list items rely on.
func trimBlankEdges(s string) string {
	s = strings.TrimRight(s, " \t\n")
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			break
		}
		s = s[i+1:]
	}
	return s
}

// LooksLikeJSON reports whether trimmed text is syntactically a JSON object
// or array. Callers use it to route such text back into the structured
// pipeline instead of treating it as prose.
func LooksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return false
	}
	return (s[0] == '{' && s[len(s)-1] == '}') ||
		(s[0] == '[' && s[len(s)-1] == ']')
}

// =============================================================================
// RULES
// =============================================================================

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// normalizeNewlines converts escaped newline sequences into real line breaks
// and collapses runs of blank lines down to a single blank line.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return excessBlankLines.ReplaceAllString(s, "\n\n")
}

// bulletGlyph matches alternate bullet characters at the start of a line.
// The plain asterisk is handled later in canonicalizeLines, where a trailing
// space distinguishes a bullet from emphasis markup.
var bulletGlyph = regexp.MustCompile(`(?m)^([ \t]*)[•◦‣·–][ \t]*`)

// normalizeBulletGlyphs rewrites alternate bullet glyphs to the canonical
// dash marker.
func normalizeBulletGlyphs(s string) string {
	return bulletGlyph.ReplaceAllString(s, "$1- ")
}

var listItemLine = regexp.MustCompile(`^[ \t]*(?:[-*+][ \t]+|\d+\.[ \t]+)`)

// separateListBlocks inserts a blank line before the first item of a list
// block when the preceding line is non-blank prose. Downstream markdown
// renderers require the separation to recognize the list.
func separateListBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && listItemLine.MatchString(line) {
			prev := lines[i-1]
			if strings.TrimSpace(prev) != "" && !listItemLine.MatchString(prev) {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var (
	// Three or more of the same rule glyph, optionally space-separated.
	// RE2 has no backreferences, so each glyph gets its own alternative.
	horizontalRule = regexp.MustCompile(`^[ \t]*(?:-(?:[ \t]*-){2,}|_(?:[ \t]*_){2,}|\*(?:[ \t]*\*){2,})[ \t]*$`)
	bulletLine     = regexp.MustCompile(`^([ \t]*)[-*][ \t]+(.*)$`)
	numberedLine   = regexp.MustCompile(`^([ \t]*)(\d+)\.[ \t]+(.*)$`)
)

// canonicalizeLines normalizes each line in isolation: rule lines become
// "---", bullet lines become "<indent>- <content>", numbered lines get
// single-space spacing. Indentation is preserved.
func canonicalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		switch {
		case horizontalRule.MatchString(line):
			lines[i] = "---"
		case bulletLine.MatchString(line):
			lines[i] = bulletLine.ReplaceAllString(line, "$1- $2")
		case numberedLine.MatchString(line):
			lines[i] = numberedLine.ReplaceAllString(line, "$1$2. $3")
		}
	}
	return strings.Join(lines, "\n")
}

var headingMarker = regexp.MustCompile(`(?m)^(#{1,6})[ \t]*([^#\s].*)$`)

// fixHeadingSpacing ensures heading markers are followed by exactly one
// space before the heading text.
func fixHeadingSpacing(s string) string {
	return headingMarker.ReplaceAllString(s, "$1 $2")
}

var headingLine = regexp.MustCompile(`^#{1,6}[ \t]+(.+)$`)

// collapseDuplicateHeadings drops a heading line whose text repeats the
// immediately preceding heading line's text, case-insensitively. The
// last-seen heading is local accumulator state threaded through a single
// scan; it resets whenever a non-heading line appears.
func collapseDuplicateHeadings(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	lastHeading := ""
	for _, line := range lines {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			text := strings.ToLower(strings.TrimSpace(m[1]))
			if text != "" && text == lastHeading {
				continue
			}
			lastHeading = text
		} else {
			lastHeading = ""
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
