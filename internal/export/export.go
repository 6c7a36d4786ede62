// Package export defines the collaborators that serialize a conversation
// turn into document formats. Exporters receive the canonical Response with
// the answer still carrying placeholder tokens and run their own expansion
// before encoding, so each format controls its table layout.
//
// PDF and DOCX encoders are external implementations of Exporter; only the
// Markdown exporter ships here, as the reference implementation.
package export

import (
	"strings"

	"knowbot/internal/placeholder"
	"knowbot/internal/response"
)

// Exporter serializes a question and its canonical Response into one
// document format.
type Exporter interface {
	// Export renders the turn into the target format.
	Export(question string, r response.Response) ([]byte, error)
	// Extension is the file extension for the format, dot included.
	Extension() string
}

// Markdown writes the turn as a markdown document.
type Markdown struct{}

// Extension implements Exporter.
func (Markdown) Extension() string { return ".md" }

// Export implements Exporter.
func (Markdown) Export(question string, r response.Response) ([]byte, error) {
	var b strings.Builder

	if question != "" {
		b.WriteString("# " + question + "\n\n")
	}
	b.WriteString(placeholder.Expand(r.Answer, r.Tables))
	b.WriteString("\n")

	if len(r.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			b.WriteString("- " + rec + "\n")
		}
	}
	if len(r.RelatedContent) > 0 {
		b.WriteString("\n## Related\n\n")
		for _, item := range r.RelatedContent {
			b.WriteString("- [" + item.Title + "](" + item.URL + ")\n")
		}
	}
	if len(r.FileLinks) > 0 {
		b.WriteString("\n## Documents\n\n")
		for _, f := range r.FileLinks {
			b.WriteString("- [" + f.Title + "](" + f.URL + ")\n")
		}
	}

	return []byte(b.String()), nil
}
