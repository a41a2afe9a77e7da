package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseSingleQuestion(t *testing.T) {
	blocks := BlocksFromText("1. What is 2+2?\nA. 3\nB. 4\nAnswer: B")

	questions, err := Parse(blocks)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	q := questions[0]
	if q.Number != 1 {
		t.Fatalf("number = %d, want 1", q.Number)
	}
	if q.Text != "What is 2+2?" {
		t.Fatalf("text = %q", q.Text)
	}
	if len(q.Options) != 2 || q.Options["A"] != "3" || q.Options["B"] != "4" {
		t.Fatalf("unexpected options: %+v", q.Options)
	}
	if q.Answer != "B" {
		t.Fatalf("answer = %q, want B", q.Answer)
	}
}

func TestParseMultipleChoiceAnswerSorted(t *testing.T) {
	blocks := BlocksFromText("2. Pick two\nA. one\nB. two\nC. three\nD. four\nAnswer: CA")

	questions, err := Parse(blocks)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if questions[0].Answer != "AC" {
		t.Fatalf("answer = %q, want AC (sorted)", questions[0].Answer)
	}
}

func TestParseMultiParagraphStem(t *testing.T) {
	text := "3. A question stem\nthat continues here\nA. yes\nB. no\nstray line after options\nAnswer: A"

	questions, err := Parse(BlocksFromText(text))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := "A question stem\nthat continues here"
	if questions[0].Text != want {
		t.Fatalf("text = %q, want %q", questions[0].Text, want)
	}
	if len(questions[0].Options) != 2 {
		t.Fatalf("stray line should not become an option, got %+v", questions[0].Options)
	}
}

func TestParseIncompleteQuestionsDropped(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no options", text: "1. Orphan stem\nAnswer: A\n2. Real\nA. x\nB. y\nAnswer: A"},
		{name: "no answer", text: "1. No answer here\nA. x\nB. y\n2. Real\nA. x\nB. y\nAnswer: A"},
		{name: "answer outside options", text: "1. Bad key\nA. x\nB. y\nAnswer: C\n2. Real\nA. x\nB. y\nAnswer: A"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions, err := Parse(BlocksFromText(tc.text))
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if len(questions) != 1 || questions[0].Number != 2 {
				t.Fatalf("expected only question 2 to survive, got %+v", questions)
			}
		})
	}
}

func TestParseEmptyBankReportsError(t *testing.T) {
	_, err := Parse(BlocksFromText("just some prose\nwith no questions at all"))
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestParseSeparatorVariantsAndCase(t *testing.T) {
	text := "1、 Full-width separator\na, lower option\nb. upper option\nANSWER: a"

	questions, err := Parse(BlocksFromText(text))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	q := questions[0]
	if q.Options["A"] != "lower option" || q.Options["B"] != "upper option" {
		t.Fatalf("letters not uppercased: %+v", q.Options)
	}
	if q.Answer != "A" {
		t.Fatalf("answer = %q, want A", q.Answer)
	}
}

func TestParseImagesDeduplicatedInOrder(t *testing.T) {
	blocks := []Block{
		{Text: "1. Identify the diagram", Images: []string{"img/a.png"}},
		{Text: "", Images: []string{"img/b.png", "img/a.png"}},
		{Text: "A. first", Images: []string{"img/b.png"}},
		{Text: "B. second"},
		{Text: "Answer: A"},
	}

	questions, err := Parse(blocks)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	images := questions[0].Images
	if len(images) != 2 || images[0] != "img/a.png" || images[1] != "img/b.png" {
		t.Fatalf("unexpected images: %v", images)
	}
}

func TestParseDuplicateAnswerLettersPreserved(t *testing.T) {
	// Duplicate letters in a captured answer are sorted but not filtered;
	// length-based multi-choice classification sees them as-is.
	blocks := BlocksFromText("1. Odd answer\nA. x\nB. y\nAnswer: AA")

	questions, err := Parse(blocks)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if questions[0].Answer != "AA" {
		t.Fatalf("answer = %q, want AA", questions[0].Answer)
	}
}

func TestReadBlocksRejectsUnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.pdf")
	if err := os.WriteFile(path, []byte("1. q\nA. x\nAnswer: A"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ReadBlocks(path); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.md")
	if err := os.WriteFile(path, []byte("1. q?\nA. x\nB. y\nAnswer: A\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	questions, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(questions) != 1 || questions[0].Answer != "A" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestBlocksFromTextNormalization(t *testing.T) {
	blocks := BlocksFromText("#  Heading text  \n\n- 1.  spaced   stem\n![fig](img/x.png)")

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Text != "Heading text" {
		t.Fatalf("heading block = %q", blocks[0].Text)
	}
	if blocks[1].Text != "1. spaced stem" {
		t.Fatalf("list block = %q", blocks[1].Text)
	}
	if blocks[2].Text != "" || len(blocks[2].Images) != 1 || blocks[2].Images[0] != "img/x.png" {
		t.Fatalf("image block = %+v", blocks[2])
	}
}
