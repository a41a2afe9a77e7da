package quiz

import (
	"math/rand"
	"sort"

	"quizdrill/internal/bank"
)

type Mode string

const (
	ModeRandom     Mode = "random"
	ModeSequential Mode = "sequential"
)

// RunConfig describes one practice run. StartQuestion is an original
// question number and only applies in sequential mode.
type RunConfig struct {
	Mode          Mode
	NumQuestions  int
	StartQuestion int
}

// Select picks the run's questions from the bank according to the config.
// Random mode shuffles the whole bank and takes a prefix; sequential mode
// sorts by original number and takes a consecutive slice starting at the
// first number >= StartQuestion. Counts are clamped to what is available.
func Select(questions []bank.Question, cfg RunConfig, rng *rand.Rand) []bank.Question {
	if len(questions) == 0 {
		return nil
	}

	if cfg.Mode == ModeSequential {
		return selectSequential(questions, cfg)
	}

	pool := append([]bank.Question(nil), questions...)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:clampCount(cfg.NumQuestions, len(pool))]
}

func selectSequential(questions []bank.Question, cfg RunConfig) []bank.Question {
	sorted := append([]bank.Question(nil), questions...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})

	start := clampStart(cfg.StartQuestion, sorted[len(sorted)-1].Number)

	// First index at or past the requested start; when every number is
	// below the threshold this wraps to the beginning of the bank.
	startIdx := 0
	found := false
	for idx, question := range sorted {
		if question.Number >= start {
			startIdx = idx
			found = true
			break
		}
	}
	if !found {
		startIdx = 0
	}

	remaining := len(sorted) - startIdx
	count := clampCount(cfg.NumQuestions, remaining)
	return sorted[startIdx : startIdx+count]
}

func clampCount(count, available int) int {
	if count < 1 {
		return 1
	}
	if count > available {
		return available
	}
	return count
}

func clampStart(start, maxNumber int) int {
	if start < 1 {
		return 1
	}
	if start > maxNumber {
		return maxNumber
	}
	return start
}
