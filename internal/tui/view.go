package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pavelanni/examterm/internal/exam"
	"github.com/pavelanni/examterm/internal/i18n"
	"github.com/pavelanni/examterm/internal/input"
	"github.com/pavelanni/examterm/internal/mode"
	"github.com/pavelanni/examterm/internal/model"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	sections := []string{m.header(), m.tabs(), m.questionList()}
	switch {
	case m.editor.Active():
		sections = append(sections, m.editorPopup())
	case m.session.Mode() == mode.Alert:
		if a, ok := m.session.Alert(); ok {
			sections = append(sections, m.alertPopup(a))
		}
	}
	sections = append(sections, faintStyle.Render(m.hint()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) header() string {
	title := titleStyle.Render(m.session.Title())

	clock := i18n.T(m.ctx, "Untimed")
	if !m.clock.Untimed() {
		clock = i18n.Td(m.ctx, "TimeRemaining", map[string]any{"Time": m.clock.String()})
	}

	var status string
	if score, ok := m.session.Score(); ok {
		status = i18n.Td(m.ctx, "ReviewScore", map[string]any{"Score": score, "Total": m.session.MaxScore()})
	} else {
		answered, total := m.session.Progress()
		status = i18n.Td(m.ctx, "Progress", map[string]any{"Answered": answered, "Total": total})
	}
	return title + "  " + timerStyle.Render(clock) + "  " + faintStyle.Render(status)
}

func (m *Model) tabs() string {
	var parts []string
	for _, c := range model.Categories() {
		label := i18n.CategoryTitle(m.ctx, c)
		if c == m.session.Category() {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) questionList() string {
	qs := m.session.Questions()
	if len(qs) == 0 {
		return faintStyle.Render(i18n.T(m.ctx, "EmptyCategory"))
	}
	cursor, _ := m.session.Cursor()
	phase := m.session.Phase()

	var b strings.Builder
	for i, q := range qs {
		for j, line := range q.RenderView(phase, i) {
			text := "  " + lineStyles[line.Style].Render(line.Text)
			if j == 0 && i == cursor {
				text = cursorStyle.Render("> " + line.Text)
			}
			b.WriteString(text)
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) editorPopup() string {
	q, _ := m.editor.Question()
	lines := []string{titleStyle.Render(i18n.T(m.ctx, "AnswerTitle")), q.Text}

	if m.editor.Kind() == input.KindJudge {
		lines = append(lines, fmt.Sprintf("[Y] %s   [N] %s", i18n.T(m.ctx, "Yes"), i18n.T(m.ctx, "No")))
	} else {
		fields := m.editor.Fields()
		for i, f := range fields {
			label := "> "
			if q.Category == model.FillIn {
				label = i18n.Td(m.ctx, "BlankN", map[string]any{"N": i + 1}) + ": "
			}
			if i == m.editor.Field() {
				lines = append(lines, label+withCaret(f, m.editor.Cursor()))
			} else {
				lines = append(lines, faintStyle.Render(label+f))
			}
		}
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}

// withCaret draws the text cursor at rune position pos.
func withCaret(s string, pos int) string {
	runes := []rune(s)
	if pos >= len(runes) {
		return focusStyle.Render(s) + caretStyle.Render(" ")
	}
	return focusStyle.Render(string(runes[:pos])) +
		caretStyle.Render(string(runes[pos])) +
		focusStyle.Render(string(runes[pos+1:]))
}

func (m *Model) alertPopup(a exam.AlertRequest) string {
	body := titleStyle.Render(i18n.T(m.ctx, "AlertTitle")) + "\n" + a.Message
	return alertStyle.Render(body)
}

func (m *Model) hint() string {
	switch {
	case m.editor.Active() && m.editor.Kind() == input.KindJudge:
		return i18n.T(m.ctx, "HintJudge")
	case m.editor.Active():
		return i18n.T(m.ctx, "HintInput")
	case m.session.Mode() == mode.Alert:
		return i18n.T(m.ctx, "HintAlert")
	case m.session.Phase() == model.Ended:
		return i18n.T(m.ctx, "HintReview")
	default:
		return i18n.T(m.ctx, "HintExam")
	}
}
