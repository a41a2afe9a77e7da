// Package tui renders a session as a full-screen terminal UI.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"quizdrill/internal/quiz"
	"quizdrill/internal/settings"
	"quizdrill/internal/storage"
)

type view int

const (
	viewQuiz view = iota
	viewSummary
	viewReview
)

// advancedMsg is sent when the session's auto-advance timer fires.
type advancedMsg struct {
	index int
}

// Model is the Bubble Tea model for one quiz run.
type Model struct {
	session  *quiz.Session
	wrongLog *quiz.WrongLog
	kv       storage.KV
	font     settings.Font

	view     view
	selected map[string]bool
	feedback string
	warning  string
	review   table.Model
	width    int
	height   int
}

// NewModel builds the UI model for a session.
func NewModel(session *quiz.Session, wrongLog *quiz.WrongLog, kv storage.KV, font settings.Font) Model {
	return Model{
		session:  session,
		wrongLog: wrongLog,
		kv:       kv,
		font:     font,
		selected: make(map[string]bool),
		review:   newReviewTable(nil, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.review = newReviewTable(m.wrongLog.Entries(), m.width)
		return m, nil
	case advancedMsg:
		m.selected = make(map[string]bool)
		m.feedback = ""
		m.warning = ""
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.view == viewReview {
		switch key {
		case "esc", "w":
			if m.session.Completed() {
				m.view = viewSummary
			} else {
				m.view = viewQuiz
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	}

	switch key {
	case "w":
		m.review = newReviewTable(m.wrongLog.Entries(), m.width)
		m.view = viewReview
		return m, nil
	case "+", "=":
		return m.resizeFont(2), nil
	case "-", "_":
		return m.resizeFont(-2), nil
	}

	if m.view == viewSummary {
		return m, nil
	}

	switch key {
	case "enter":
		return m.submit(), nil
	case "n", "right":
		m.session.Next()
		m.resetQuestionState()
		return m, nil
	case "p", "left":
		m.session.Prev()
		m.resetQuestionState()
		return m, nil
	}

	if letter := optionLetter(key); letter != "" {
		m.toggle(letter)
	}
	return m, nil
}

func (m *Model) toggle(letter string) {
	_, question := m.session.Current()
	if _, ok := question.ShuffledOptions[letter]; !ok {
		return
	}
	if _, answered := m.answeredCurrent(); answered {
		return
	}

	if question.IsMultipleChoice {
		m.selected[letter] = !m.selected[letter]
		return
	}
	for existing := range m.selected {
		delete(m.selected, existing)
	}
	m.selected[letter] = true
}

func (m Model) submit() Model {
	selection := make([]string, 0, len(m.selected))
	for letter, on := range m.selected {
		if on {
			selection = append(selection, letter)
		}
	}

	record, err := m.session.Submit(selection)
	if err != nil {
		m.warning = err.Error()
		return m
	}

	m.warning = ""
	_, question := m.session.Current()
	if record.IsCorrect {
		m.feedback = "Correct!"
	} else {
		m.feedback = fmt.Sprintf("Wrong. Correct answer: %s (original %s)",
			question.ShuffledAnswer, question.Answer)
	}

	if m.session.Completed() {
		m.view = viewSummary
	}
	return m
}

func (m Model) resizeFont(delta int) Model {
	m.font = settings.Font{FontSize: m.font.FontSize + delta}.Clamp()
	// Fire-and-forget persistence on every change, like the original UI.
	_ = settings.Save(m.kv, m.font)
	return m
}

func (m *Model) resetQuestionState() {
	m.selected = make(map[string]bool)
	m.feedback = ""
	m.warning = ""
}

func (m Model) answeredCurrent() (quiz.AnswerRecord, bool) {
	index, _ := m.session.Current()
	return m.session.AnswerAt(index)
}

// optionLetter maps a key press to an option letter, or "" if it is not
// one.
func optionLetter(key string) string {
	if len(key) != 1 {
		return ""
	}
	upper := strings.ToUpper(key)
	if upper[0] < 'A' || upper[0] > 'F' {
		return ""
	}
	return upper
}

// Run starts the TUI program and blocks until the user quits. The
// session's auto-advance notifications are routed into the program as
// messages so a stale timer can never touch a dead UI.
func Run(session *quiz.Session, wrongLog *quiz.WrongLog, kv storage.KV, font settings.Font) error {
	program := tea.NewProgram(
		NewModel(session, wrongLog, kv, font),
		tea.WithAltScreen(),
	)
	session.SetAdvanceNotify(func(index int) {
		program.Send(advancedMsg{index: index})
	})
	defer session.Close()

	_, err := program.Run()
	return err
}
