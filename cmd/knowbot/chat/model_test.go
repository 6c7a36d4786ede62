package chat

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowbot/internal/config"
	"knowbot/internal/response"
)

func newTestModel() Model {
	return New(config.Default(), nil, nil)
}

func TestUpdate_EnterSendsQuestion(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("what are your hours?")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(Model)

	require.Len(t, m.history, 1)
	assert.Equal(t, "user", m.history[0].Role)
	assert.Equal(t, "what are your hours?", m.history[0].Content)
	assert.True(t, m.waiting)
	assert.NotNil(t, cmd)
}

func TestUpdate_EmptyInputIgnored(t *testing.T) {
	m := newTestModel()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(Model)

	assert.Empty(t, m.history)
	assert.False(t, m.waiting)
}

func TestUpdate_AnswerAppendsHistory(t *testing.T) {
	m := newTestModel()
	m.waiting = true

	model, _ := m.Update(answerMsg{resp: response.Response{Answer: "We open at 9am."}})
	m = model.(Model)

	assert.False(t, m.waiting)
	require.Len(t, m.history, 1)
	assert.Equal(t, "assistant", m.history[0].Role)
	require.NotNil(t, m.history[0].Resp)
	assert.Equal(t, "We open at 9am.", m.history[0].Resp.Answer)
}

func TestUpdate_AnswerErrorKeptForFooter(t *testing.T) {
	m := newTestModel()
	m.waiting = true

	model, _ := m.Update(answerMsg{err: errors.New("backend down")})
	m = model.(Model)

	assert.False(t, m.waiting)
	assert.Empty(t, m.history)
	require.Error(t, m.err)
}

// Without a terminal there is no glamour renderer; rendering degrades to the
// expanded plain text.
func TestRenderAnswer_NoRendererFallback(t *testing.T) {
	m := newTestModel()
	resp := response.Response{
		Answer: "Call [ICON:phone] now",
		Tables: nil,
	}
	out := m.renderAnswer(Message{Role: "assistant", Resp: &resp})

	assert.NotContains(t, out, "[ICON:")
	assert.Contains(t, out, "☎")
}

func TestRenderMeta_ListsExtras(t *testing.T) {
	m := newTestModel()
	out := m.renderMeta(response.Response{
		Recommendations: []string{"ask about parking"},
		RelatedContent:  []response.RelatedItem{{Title: "Visit us", URL: "https://kb.example/visit"}},
		FileLinks:       []response.FileLink{{Title: "Map", URL: "https://kb.example/map.pdf"}},
	})

	assert.Contains(t, out, "ask about parking")
	assert.Contains(t, out, "Visit us")
	assert.Contains(t, out, "Map")
}
