package bank

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNoQuestions     = errors.New("no valid questions found in bank")
	ErrUnsupportedFile = errors.New("unsupported bank file type")
)

// Question is one parsed bank entry. Immutable after parse.
type Question struct {
	Number  int               `json:"number"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"`
	Answer  string            `json:"answer"`
	Images  []string          `json:"images,omitempty"`
}

var (
	questionPattern = regexp.MustCompile(`^(\d+)[.,、]\s*(.*)$`)
	optionPattern   = regexp.MustCompile(`(?i)^([A-F])[.,、]\s*(.*)$`)
	answerPattern   = regexp.MustCompile(`(?i)^answer[:\s]+([A-F]+)$`)
)

// accumulator holds the in-progress question during the block scan.
type accumulator struct {
	number  int
	text    []string
	options map[string]string
	images  []string
	seen    map[string]bool
	answer  string
}

func (a *accumulator) open() bool {
	return a.number > 0
}

func (a *accumulator) reset(number int, text string) {
	a.number = number
	a.text = a.text[:0]
	if text != "" {
		a.text = append(a.text, text)
	}
	a.options = make(map[string]string)
	a.images = nil
	a.seen = make(map[string]bool)
	a.answer = ""
}

func (a *accumulator) addImages(refs []string) {
	if !a.open() {
		return
	}
	for _, ref := range refs {
		if ref == "" || a.seen[ref] {
			continue
		}
		a.seen[ref] = true
		a.images = append(a.images, ref)
	}
}

// flush emits the current question if it is complete: a number, at least
// one option, and a non-empty answer. Answer letters are sorted; duplicate
// letters are not filtered out.
func (a *accumulator) flush(out []Question) []Question {
	if !a.open() || len(a.options) == 0 || a.answer == "" {
		return out
	}
	for _, letter := range strings.Split(a.answer, "") {
		if _, ok := a.options[letter]; !ok {
			return out
		}
	}

	options := make(map[string]string, len(a.options))
	for letter, text := range a.options {
		options[letter] = text
	}

	return append(out, Question{
		Number:  a.number,
		Text:    strings.Join(a.text, "\n"),
		Options: options,
		Answer:  sortLetters(a.answer),
		Images:  append([]string(nil), a.images...),
	})
}

// Parse scans the block stream left to right and produces the question
// list. It returns ErrNoQuestions when the scan yields nothing usable.
func Parse(blocks []Block) ([]Question, error) {
	var questions []Question
	var acc accumulator

	for _, block := range blocks {
		line := block.Text

		if matches := questionPattern.FindStringSubmatch(line); matches != nil {
			questions = acc.flush(questions)
			number, err := strconv.Atoi(matches[1])
			if err != nil || number < 1 {
				acc.reset(0, "")
				continue
			}
			acc.reset(number, matches[2])
			acc.addImages(block.Images)
			continue
		}

		if matches := answerPattern.FindStringSubmatch(line); matches != nil {
			if acc.open() {
				acc.answer = strings.ToUpper(matches[1])
				acc.addImages(block.Images)
			}
			continue
		}

		if matches := optionPattern.FindStringSubmatch(line); matches != nil {
			if acc.open() {
				acc.options[strings.ToUpper(matches[1])] = matches[2]
				acc.addImages(block.Images)
			}
			continue
		}

		// Stray lines extend the stem only until options begin; their
		// images always belong to the current question.
		if acc.open() {
			if line != "" && len(acc.options) == 0 {
				acc.text = append(acc.text, line)
			}
			acc.addImages(block.Images)
		}
	}

	questions = acc.flush(questions)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// ParseFile reads a bank file and parses it in one step.
func ParseFile(path string) ([]Question, error) {
	blocks, err := ReadBlocks(path)
	if err != nil {
		return nil, err
	}
	return Parse(blocks)
}

func sortLetters(letters string) string {
	parts := strings.Split(letters, "")
	sort.Strings(parts)
	return strings.Join(parts, "")
}
