package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"quizdrill/internal/quiz"
	"quizdrill/internal/settings"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
)

func (m Model) View() string {
	frame := lipgloss.NewStyle().Padding(1, framePadding(m.font))

	switch m.view {
	case viewReview:
		return frame.Render(m.reviewView())
	case viewSummary:
		return frame.Render(m.summaryView())
	default:
		return frame.Render(m.quizView())
	}
}

// framePadding scales the layout with the persisted font size, the
// terminal stand-in for the original font preference.
func framePadding(font settings.Font) int {
	return 1 + (font.FontSize-settings.MinFontSize)/8
}

func (m Model) quizView() string {
	index, question := m.session.Current()
	record, answered := m.session.AnswerAt(index)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Question %d/%d  (#%d)", index+1, m.session.Len(), question.Number)))
	b.WriteString("\n\n")
	b.WriteString(question.Text)
	b.WriteString("\n")
	for _, image := range question.Images {
		b.WriteString(dimStyle.Render(fmt.Sprintf("[image: %s]", image)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	letters := make([]string, 0, len(question.ShuffledOptions))
	for letter := range question.ShuffledOptions {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	for _, letter := range letters {
		b.WriteString(m.optionLine(letter, question, record, answered))
		b.WriteString("\n")
	}

	if question.IsMultipleChoice && !answered {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\nSelect %d options, then press enter.", len(question.ShuffledAnswer))))
		b.WriteString("\n")
	}
	if m.warning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}
	if m.feedback != "" {
		b.WriteString("\n")
		if record.IsCorrect {
			b.WriteString(correctStyle.Render(m.feedback))
		} else {
			b.WriteString(wrongStyle.Render(m.feedback))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("a-f select · enter submit · n/p move · w review · +/- font · q quit"))
	return b.String()
}

func (m Model) optionLine(letter string, question quiz.PreparedQuestion, record quiz.AnswerRecord, answered bool) string {
	marker := "( )"
	if question.IsMultipleChoice {
		marker = "[ ]"
	}
	if m.selected[letter] {
		if question.IsMultipleChoice {
			marker = "[x]"
		} else {
			marker = "(x)"
		}
	}

	line := fmt.Sprintf("%s %s. %s", marker, letter, question.ShuffledOptions[letter])
	if answered {
		if strings.Contains(question.ShuffledAnswer, letter) {
			return correctStyle.Render(line)
		}
		if strings.Contains(record.UserAnswerShuffled, letter) {
			return wrongStyle.Render(line)
		}
		return dimStyle.Render(line)
	}
	if m.selected[letter] {
		return selectedStyle.Render(line)
	}
	return line
}

func (m Model) summaryView() string {
	summary := m.session.Summary()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Run complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Score: %d/%d (%.0f%%)\n", summary.Correct, summary.Total, summary.Percent))
	b.WriteString(fmt.Sprintf("Missed-question log: %d entries\n", summary.WrongLogSize))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("w review misses · q quit"))
	return b.String()
}

func (m Model) reviewView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Missed questions (%d)", m.wrongLog.Len())))
	b.WriteString("\n\n")
	if m.wrongLog.Len() == 0 {
		b.WriteString(dimStyle.Render("Nothing here. Keep it that way."))
	} else {
		b.WriteString(m.review.View())
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("esc back · q quit"))
	return b.String()
}

func newReviewTable(entries []quiz.WrongAnswerEntry, width int) table.Model {
	questionWidth := width - 36
	if questionWidth < 24 {
		questionWidth = 24
	}

	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "Yours", Width: 8},
		{Title: "Correct", Width: 8},
		{Title: "Question", Width: questionWidth},
	}

	rows := make([]table.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", entry.OriginalNumber),
			entry.UserAnswer,
			entry.CorrectAnswer,
			firstLine(entry.QuestionText),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(len(rows), 1)),
	)
	return t
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
