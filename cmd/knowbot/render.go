package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"knowbot/internal/config"
	"knowbot/internal/placeholder"
	"knowbot/internal/render"
	"knowbot/internal/response"
)

// renderAnswerHTML produces sanitized HTML for callers that embed the answer
// as markup.
func renderAnswerHTML(r response.Response) string {
	expanded := placeholder.Expand(r.Answer, r.Tables)
	return render.Safe(expanded)
}

// renderAnswer produces the terminal form of a canonical Response for the
// one-shot ask command: placeholder expansion, then markdown rendering with
// a plain-text fallback.
func renderAnswer(cfg *config.Config, r response.Response) string {
	expanded := placeholder.Expand(r.Answer, r.Tables)
	out := safeRenderMarkdown(cfg, expanded)

	var extra strings.Builder
	if cfg.UI.ShowMeta {
		if len(r.Recommendations) > 0 {
			extra.WriteString("\nYou could also ask:\n")
			for _, rec := range r.Recommendations {
				extra.WriteString("  - " + rec + "\n")
			}
		}
		if len(r.RelatedContent) > 0 {
			extra.WriteString("\nRelated:\n")
			for _, item := range r.RelatedContent {
				extra.WriteString(fmt.Sprintf("  - %s (%s)\n", item.Title, item.URL))
			}
		}
		if len(r.FileLinks) > 0 {
			extra.WriteString("\nDocuments:\n")
			for _, f := range r.FileLinks {
				extra.WriteString(fmt.Sprintf("  - %s (%s)\n", f.Title, f.URL))
			}
		}
	}
	return out + extra.String()
}

// safeRenderMarkdown renders markdown for the terminal with panic recovery.
func safeRenderMarkdown(cfg *config.Config, content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	wrap := cfg.UI.WordWrap
	if wrap <= 0 {
		wrap = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
