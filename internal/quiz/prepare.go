package quiz

import (
	"math/rand"
	"sort"
	"strings"

	"quizdrill/internal/bank"
)

// PreparedQuestion is a bank question dressed for one run: options get a
// fresh randomized letter assignment, with mappings back to the original
// labeling so results and the wrong-answer log can speak original-space.
type PreparedQuestion struct {
	bank.Question

	IsMultipleChoice bool
	ShuffledOptions  map[string]string
	OptionMapping    map[string]string // new letter -> original letter
	ReverseMapping   map[string]string // original letter -> new letter
	ShuffledAnswer   string
}

// Prepare shuffles a question's options and derives the letter mappings
// and translated answer. Each question is prepared independently.
func Prepare(question bank.Question, rng *rand.Rand) PreparedQuestion {
	originals := make([]string, 0, len(question.Options))
	for letter := range question.Options {
		originals = append(originals, letter)
	}
	sort.Strings(originals)

	rng.Shuffle(len(originals), func(i, j int) {
		originals[i], originals[j] = originals[j], originals[i]
	})

	shuffled := make(map[string]string, len(originals))
	forward := make(map[string]string, len(originals))
	reverse := make(map[string]string, len(originals))
	for idx, original := range originals {
		letter := string(rune('A' + idx))
		shuffled[letter] = question.Options[original]
		forward[letter] = original
		reverse[original] = letter
	}

	return PreparedQuestion{
		Question:         question,
		IsMultipleChoice: len(question.Answer) > 1,
		ShuffledOptions:  shuffled,
		OptionMapping:    forward,
		ReverseMapping:   reverse,
		ShuffledAnswer:   translateLetters(question.Answer, reverse),
	}
}

// PrepareAll prepares every selected question for a run.
func PrepareAll(questions []bank.Question, rng *rand.Rand) []PreparedQuestion {
	prepared := make([]PreparedQuestion, 0, len(questions))
	for _, question := range questions {
		prepared = append(prepared, Prepare(question, rng))
	}
	return prepared
}

// translateLetters maps each letter through the given mapping and returns
// the result re-sorted. Letters missing from the mapping pass through.
func translateLetters(letters string, mapping map[string]string) string {
	translated := make([]string, 0, len(letters))
	for _, letter := range strings.Split(letters, "") {
		if mapped, ok := mapping[letter]; ok {
			translated = append(translated, mapped)
			continue
		}
		translated = append(translated, letter)
	}
	sort.Strings(translated)
	return strings.Join(translated, "")
}

// SortedLetters returns the selection uppercased, sorted, and joined.
func SortedLetters(letters []string) string {
	normalized := make([]string, 0, len(letters))
	for _, letter := range letters {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(letter)))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, "")
}
