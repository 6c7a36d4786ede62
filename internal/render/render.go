// Package render converts expanded answer markdown into sanitized HTML for
// the final display step. Export formats consume the canonical model
// directly and never pass through here.
package render

import (
	"bytes"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// markdown is the shared converter: GitHub-flavored rules with hard line
// breaks preserved. Raw HTML is let through here so the sanitization passes
// below see it; it never reaches the caller unfiltered.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// policy is the sanitization baseline. bluemonday policies are safe for
// concurrent use once constructed.
var policy = bluemonday.UGCPolicy()

var (
	scriptBlock    = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	scriptTag      = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	jsSchemeAttr   = regexp.MustCompile(`(?i)(\w+)\s*=\s*(["'])\s*javascript:[^"']*["']`)
	eventAttr      = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*("[^"]*"|'[^']*')`)
	headingMarkers = regexp.MustCompile(`(?i)(<h[1-6][^>]*>)\s*#{1,6}\s*`)
	emptyHeading   = regexp.MustCompile(`(?i)<h[1-6][^>]*>\s*</h[1-6]>\n?`)
)

// Renderer converts markdown to sanitized HTML. The zero value is usable;
// a logger only adds diagnostics for conversion fallbacks.
type Renderer struct {
	log *zap.Logger
}

// New creates a Renderer. A nil logger disables diagnostics.
func New(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Safe converts markdown to HTML and neutralizes constructs capable of side
// effects. It never fails: a conversion fault falls back to returning the
// original markdown so the caller always has something displayable.
func (r *Renderer) Safe(md string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.log != nil {
				r.log.Warn("markdown conversion panicked, falling back to raw text",
					zap.Any("panic", rec))
			}
			out = md
		}
	}()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		if r.log != nil {
			r.log.Warn("markdown conversion failed, falling back to raw text",
				zap.Error(err))
		}
		return md
	}
	return sanitize(buf.String())
}

// Safe renders with the package default renderer (no diagnostics).
func Safe(md string) string {
	return defaultRenderer.Safe(md)
}

var defaultRenderer = &Renderer{}

// sanitize strips executable constructs and repairs known conversion
// artifacts. Ordering matters: the explicit strips run before the policy
// pass, the heading repair after, since the policy cannot reintroduce
// markup.
func sanitize(h string) string {
	h = scriptBlock.ReplaceAllString(h, "")
	h = scriptTag.ReplaceAllString(h, "")
	h = jsSchemeAttr.ReplaceAllString(h, `$1=$2$2`)
	h = eventAttr.ReplaceAllString(h, "")
	h = policy.Sanitize(h)
	// A heading written without marker spacing can survive conversion with
	// its "#" run inside the element; strip it, then drop headings the
	// repair left empty.
	h = headingMarkers.ReplaceAllString(h, "$1")
	h = emptyHeading.ReplaceAllString(h, "")
	return h
}
