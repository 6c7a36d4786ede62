// View rendering for the chat TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"knowbot/internal/placeholder"
	"knowbot/internal/response"
)

// Styles collects the lipgloss styles used by the chat view.
type Styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns the standard theme.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render("knowbot")

	footer := m.input.View()
	if m.waiting {
		footer = m.spinner.View() + " thinking...\n" + footer
	} else if m.err != nil {
		footer = m.styles.Error.Render("error: "+m.err.Error()) + "\n" + footer
	} else {
		footer = m.styles.Muted.Render("enter to send, esc to quit") + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			sb.WriteString(m.styles.User.Render("You") + "\n")
			sb.WriteString(msg.Content)
			sb.WriteString("\n\n")
		default: // "assistant"
			sb.WriteString(m.styles.Assistant.Render("knowbot") + "\n")
			sb.WriteString(m.renderAnswer(msg))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderAnswer derives display markup from the canonical model: placeholder
// expansion against the turn's tables, then markdown rendering.
func (m Model) renderAnswer(msg Message) string {
	if msg.Resp == nil {
		return m.safeRenderMarkdown(msg.Content)
	}

	expanded := placeholder.Expand(msg.Resp.Answer, msg.Resp.Tables)
	out := m.safeRenderMarkdown(expanded)

	if m.cfg.UI.ShowMeta {
		out += m.renderMeta(*msg.Resp)
	}
	return out
}

// renderMeta lists the structured extras below the answer body.
func (m Model) renderMeta(r response.Response) string {
	var sb strings.Builder

	if len(r.Recommendations) > 0 {
		sb.WriteString(m.styles.Muted.Render("You could also ask:") + "\n")
		for _, rec := range r.Recommendations {
			sb.WriteString(m.styles.Muted.Render("  - "+rec) + "\n")
		}
	}
	if len(r.RelatedContent) > 0 {
		sb.WriteString(m.styles.Muted.Render("Related:") + "\n")
		for _, item := range r.RelatedContent {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("  - %s (%s)", item.Title, item.URL)) + "\n")
		}
	}
	if len(r.FileLinks) > 0 {
		sb.WriteString(m.styles.Muted.Render("Documents:") + "\n")
		for _, f := range r.FileLinks {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("  - %s (%s)", f.Title, f.URL)) + "\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}
