package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"quizdrill/internal/quiz"
)

const maxAttempts = 3

// Run drives one session in plain line mode: every question is printed,
// a selection is read, and feedback is shown. The session advances
// linearly, so it should be constructed with quiz.NoopScheduler.
func Run(ctx context.Context, session *quiz.Session, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	for idx := 0; idx < session.Len(); idx++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		question := session.Question(idx)
		printQuestion(out, idx+1, session.Len(), question)

		record, answered := submitWithRetries(session, reader, out)
		fmt.Fprintln(out)
		if !answered {
			fmt.Fprintf(out, "Skipping. Correct answer was %s\n\n", question.ShuffledAnswer)
			session.Next()
			continue
		}

		if record.IsCorrect {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong. Correct answer was %s (original %s)\n",
				question.ShuffledAnswer, question.Answer)
		}
		fmt.Fprintln(out)
		session.Next()
	}

	summary := session.Summary()
	fmt.Fprintf(out, "\nFinal score: %d/%d (%.0f%%)\n", summary.Correct, summary.Total, summary.Percent)
	if summary.WrongLogSize > 0 {
		fmt.Fprintf(out, "Missed-question log now holds %d entries.\n", summary.WrongLogSize)
	}
	return nil
}

func printQuestion(out io.Writer, position, total int, question quiz.PreparedQuestion) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d (#%d): %s\n\n", position, total, question.Number, question.Text)
	for _, image := range question.Images {
		fmt.Fprintf(out, "  [image: %s]\n", image)
	}

	letters := make([]string, 0, len(question.ShuffledOptions))
	for letter := range question.ShuffledOptions {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	for _, letter := range letters {
		fmt.Fprintf(out, "%s. %s\n", letter, question.ShuffledOptions[letter])
	}

	if question.IsMultipleChoice {
		fmt.Fprintf(out, "\nSelect %d letters (e.g. AC): ", len(question.ShuffledAnswer))
	} else {
		fmt.Fprint(out, "\nSelect one letter: ")
	}
}

func submitWithRetries(session *quiz.Session, reader *bufio.Reader, out io.Writer) (quiz.AnswerRecord, bool) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return quiz.AnswerRecord{}, false
		}

		record, submitErr := session.Submit(parseSelection(line))
		if submitErr == nil {
			return record, true
		}
		if errors.Is(submitErr, quiz.ErrAlreadyAnswered) {
			return quiz.AnswerRecord{}, false
		}

		if attempt < maxAttempts {
			fmt.Fprintf(out, "\n%s. Try again: ", capitalize(submitErr.Error()))
		}
	}
	return quiz.AnswerRecord{}, false
}

// parseSelection splits free-form input like "AC", "a c", or "a,c" into
// individual letters.
func parseSelection(line string) []string {
	cleaned := strings.NewReplacer(",", "", ";", "", " ", "", "\t", "").Replace(strings.TrimSpace(line))
	letters := make([]string, 0, len(cleaned))
	for _, r := range cleaned {
		letters = append(letters, string(r))
	}
	return letters
}

func capitalize(message string) string {
	if message == "" {
		return message
	}
	return strings.ToUpper(message[:1]) + message[1:]
}
