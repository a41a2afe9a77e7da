package quiz

import (
	"math/rand"
	"testing"

	"quizdrill/internal/bank"
)

func sampleQuestion() bank.Question {
	return bank.Question{
		Number: 7,
		Text:   "Pick the two primes",
		Options: map[string]string{
			"A": "2",
			"B": "4",
			"C": "5",
			"D": "6",
		},
		Answer: "AC",
	}
}

func TestPrepareMappingsAreInverses(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for seed := int64(0); seed < 20; seed++ {
		prepared := Prepare(sampleQuestion(), rng)

		if len(prepared.ShuffledOptions) != 4 {
			t.Fatalf("expected 4 shuffled options, got %d", len(prepared.ShuffledOptions))
		}
		for newLetter, original := range prepared.OptionMapping {
			if prepared.ReverseMapping[original] != newLetter {
				t.Fatalf("mappings disagree: %s -> %s -> %s",
					newLetter, original, prepared.ReverseMapping[original])
			}
			if prepared.ShuffledOptions[newLetter] != sampleQuestion().Options[original] {
				t.Fatalf("option text did not follow letter %s", newLetter)
			}
		}
	}
}

func TestPrepareShuffledAnswerTranslatesBack(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prepared := Prepare(sampleQuestion(), rng)

	if !prepared.IsMultipleChoice {
		t.Fatal("two-letter answer should be multiple choice")
	}
	if len(prepared.ShuffledAnswer) != 2 {
		t.Fatalf("shuffled answer length = %d, want 2", len(prepared.ShuffledAnswer))
	}

	back := translateLetters(prepared.ShuffledAnswer, prepared.OptionMapping)
	if back != "AC" {
		t.Fatalf("round trip = %q, want AC", back)
	}
}

func TestPrepareSingleChoice(t *testing.T) {
	q := sampleQuestion()
	q.Answer = "B"
	prepared := Prepare(q, rand.New(rand.NewSource(3)))

	if prepared.IsMultipleChoice {
		t.Fatal("single-letter answer flagged as multiple choice")
	}
	original := prepared.OptionMapping[prepared.ShuffledAnswer]
	if original != "B" {
		t.Fatalf("shuffled answer maps to %q, want B", original)
	}
}

func TestSortedLetters(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{name: "sorts", input: []string{"C", "A"}, want: "AC"},
		{name: "uppercases and trims", input: []string{" b ", "a"}, want: "AB"},
		{name: "empty", input: nil, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SortedLetters(tc.input); got != tc.want {
				t.Fatalf("SortedLetters(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
