package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"quizdrill/internal/bank"
	"quizdrill/internal/quiz"
	"quizdrill/internal/settings"
	"quizdrill/internal/storage"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel(t *testing.T, answer string) (Model, *quiz.Session, storage.KV) {
	t.Helper()

	options := map[string]string{"A": "one", "B": "two", "C": "three"}
	forward := map[string]string{"A": "A", "B": "B", "C": "C"}
	question := quiz.PreparedQuestion{
		Question: bank.Question{
			Number:  1,
			Text:    "pick",
			Options: options,
			Answer:  answer,
		},
		IsMultipleChoice: len(answer) > 1,
		ShuffledOptions:  options,
		OptionMapping:    forward,
		ReverseMapping:   forward,
		ShuffledAnswer:   answer,
	}

	kv := storage.NewMemory()
	wrongLog, err := quiz.LoadWrongLog(kv)
	if err != nil {
		t.Fatalf("LoadWrongLog: %v", err)
	}
	session := quiz.NewSession(
		[]quiz.PreparedQuestion{question},
		quiz.WithScheduler(quiz.NoopScheduler{}),
		quiz.WithWrongLog(wrongLog),
	)
	return NewModel(session, wrongLog, kv, settings.Font{FontSize: settings.DefaultFontSize}), session, kv
}

func update(t *testing.T, model Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return next
}

func TestToggleSingleChoiceReplacesSelection(t *testing.T) {
	model, _, _ := testModel(t, "B")

	model = update(t, model, keyRunes("a"))
	model = update(t, model, keyRunes("c"))

	if model.selected["A"] || !model.selected["C"] {
		t.Fatalf("single choice should replace selection: %+v", model.selected)
	}
}

func TestToggleMultiChoiceAccumulates(t *testing.T) {
	model, _, _ := testModel(t, "AC")

	model = update(t, model, keyRunes("a"))
	model = update(t, model, keyRunes("c"))
	model = update(t, model, keyRunes("c"))

	if !model.selected["A"] || model.selected["C"] {
		t.Fatalf("multi choice toggle wrong: %+v", model.selected)
	}
}

func TestEnterSubmitsAndRecords(t *testing.T) {
	model, session, _ := testModel(t, "B")

	model = update(t, model, keyRunes("b"))
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	record, answered := session.AnswerAt(0)
	if !answered || !record.IsCorrect {
		t.Fatalf("submission did not land: answered=%v record=%+v", answered, record)
	}
	if model.view != viewSummary {
		t.Fatal("single-question run should land on the summary view")
	}
}

func TestEnterWithEmptySelectionWarns(t *testing.T) {
	model, session, _ := testModel(t, "B")

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	if model.warning == "" {
		t.Fatal("empty submission should set a warning")
	}
	if _, answered := session.AnswerAt(0); answered {
		t.Fatal("empty submission must not answer the question")
	}
}

func TestAdvancedMsgResetsSelection(t *testing.T) {
	model, _, _ := testModel(t, "AC")

	model = update(t, model, keyRunes("a"))
	model = update(t, model, advancedMsg{index: 0})

	if len(model.selected) != 0 || model.feedback != "" {
		t.Fatalf("advance did not reset question state: %+v", model.selected)
	}
}

func TestFontResizePersistsAndClamps(t *testing.T) {
	model, _, kv := testModel(t, "B")

	for i := 0; i < 20; i++ {
		model = update(t, model, keyRunes("+"))
	}
	if model.font.FontSize != settings.MaxFontSize {
		t.Fatalf("font size = %d, want clamp at %d", model.font.FontSize, settings.MaxFontSize)
	}

	persisted, err := settings.Load(kv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if persisted.FontSize != settings.MaxFontSize {
		t.Fatalf("persisted font size = %d", persisted.FontSize)
	}
}
