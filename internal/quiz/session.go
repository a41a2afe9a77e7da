package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AutoAdvanceDelay is how long a correct answer is shown before the
// session moves to the next question on its own.
const AutoAdvanceDelay = 500 * time.Millisecond

var (
	ErrEmptySelection  = errors.New("select at least one option")
	ErrSelectionCount  = errors.New("selection count does not match the answer")
	ErrInvalidLetter   = errors.New("selected letter is not an option")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrRunComplete     = errors.New("run is already complete")
)

// AnswerRecord is the immutable outcome of one submission.
type AnswerRecord struct {
	Selected           []string
	IsCorrect          bool
	UserAnswerShuffled string
	UserAnswerOriginal string
}

// Summary describes a finished (or in-progress) run.
type Summary struct {
	RunID        string
	Total        int
	Correct      int
	Percent      float64
	WrongLogSize int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Session is one practice run over a prepared question set. All mutable
// run state lives here and changes only through the methods below. The
// mutex exists because the auto-advance timer fires off-thread.
type Session struct {
	mu sync.Mutex

	runID     string
	questions []PreparedQuestion
	answers   []*AnswerRecord
	current   int
	correct   int
	warning   string
	startedAt time.Time
	finished  time.Time

	wrongLog      *WrongLog
	scheduler     AdvanceScheduler
	cancelAdvance func()
	onAdvance     func(index int)
	closed        bool
}

// SessionOption configures a new session.
type SessionOption func(*Session)

// WithWrongLog wires the persistent missed-question log into the session.
func WithWrongLog(log *WrongLog) SessionOption {
	return func(s *Session) { s.wrongLog = log }
}

// WithScheduler replaces the auto-advance scheduler.
func WithScheduler(scheduler AdvanceScheduler) SessionOption {
	return func(s *Session) { s.scheduler = scheduler }
}

// WithAdvanceNotify registers a callback invoked with the new index when
// an auto-advance fires.
func WithAdvanceNotify(fn func(index int)) SessionOption {
	return func(s *Session) { s.onAdvance = fn }
}

// NewSession starts a run over already-prepared questions.
func NewSession(questions []PreparedQuestion, opts ...SessionOption) *Session {
	s := &Session{
		runID:     uuid.NewString(),
		questions: questions,
		answers:   make([]*AnswerRecord, len(questions)),
		scheduler: TimerScheduler{},
		startedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) RunID() string { return s.runID }

func (s *Session) Len() int { return len(s.questions) }

// Current returns the active question index and question.
func (s *Session) Current() (int, PreparedQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.questions[s.current]
}

// Question returns the prepared question at an index.
func (s *Session) Question(index int) PreparedQuestion {
	return s.questions[index]
}

// AnswerAt returns the answer record for an index, if one exists.
func (s *Session) AnswerAt(index int) (AnswerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.answers) || s.answers[index] == nil {
		return AnswerRecord{}, false
	}
	return *s.answers[index], true
}

// SetAdvanceNotify replaces the auto-advance callback. Fronts that exist
// only after the session does (the TUI program) wire themselves in here.
func (s *Session) SetAdvanceNotify(fn func(index int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdvance = fn
}

// Warning returns the latest validation message, if any.
func (s *Session) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// Submit answers the current question with a set of shuffled-space
// letters. Validation failures leave the state machine untouched and are
// reported as ErrEmptySelection, ErrSelectionCount, ErrInvalidLetter, or
// ErrAlreadyAnswered. After the answer record is committed, a failure to
// persist the wrong-answer log is returned alongside the record.
func (s *Session) Submit(selection []string) (AnswerRecord, error) {
	s.mu.Lock()

	index := s.current
	if s.answers[index] != nil {
		s.mu.Unlock()
		return AnswerRecord{}, ErrAlreadyAnswered
	}

	question := s.questions[index]
	letters, err := s.validateSelection(question, selection)
	if err != nil {
		s.warning = err.Error()
		s.mu.Unlock()
		return AnswerRecord{}, err
	}

	shuffledAnswer := strings.Join(letters, "")
	record := &AnswerRecord{
		Selected:           letters,
		IsCorrect:          shuffledAnswer == question.ShuffledAnswer,
		UserAnswerShuffled: shuffledAnswer,
		UserAnswerOriginal: translateLetters(shuffledAnswer, question.OptionMapping),
	}

	s.answers[index] = record
	s.warning = ""
	if record.IsCorrect {
		s.correct++
	}
	if s.completedLocked() {
		s.finished = time.Now().UTC()
	}

	s.stopAdvanceLocked()
	if record.IsCorrect && index < len(s.questions)-1 {
		s.scheduleAdvanceLocked()
	}

	var logErr error
	if !record.IsCorrect && s.wrongLog != nil {
		entry := WrongAnswerEntry{
			OriginalNumber:   question.Number,
			QuestionText:     question.Text,
			Options:          question.Options,
			CorrectAnswer:    question.Answer,
			UserAnswer:       record.UserAnswerOriginal,
			IsMultipleChoice: question.IsMultipleChoice,
			Timestamp:        time.Now().UTC(),
		}
		logErr = s.wrongLog.Upsert(entry)
	}
	s.mu.Unlock()

	if logErr != nil {
		return *record, fmt.Errorf("record missed question: %w", logErr)
	}
	return *record, nil
}

func (s *Session) validateSelection(question PreparedQuestion, selection []string) ([]string, error) {
	letters := normalizeSelection(selection)
	if len(letters) == 0 {
		return nil, ErrEmptySelection
	}
	for _, letter := range letters {
		if _, ok := question.ShuffledOptions[letter]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidLetter, letter)
		}
	}

	required := 1
	if question.IsMultipleChoice {
		required = len(question.ShuffledAnswer)
	}
	if len(letters) != required {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrSelectionCount, required, len(letters))
	}
	return letters, nil
}

// Next moves to the following question, canceling any pending advance.
func (s *Session) Next() int { return s.move(1) }

// Prev moves to the preceding question, canceling any pending advance.
func (s *Session) Prev() int { return s.move(-1) }

func (s *Session) move(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAdvanceLocked()
	next := s.current + delta
	if next >= 0 && next < len(s.questions) {
		s.current = next
		s.warning = ""
	}
	return s.current
}

// Completed reports whether every question has an answer record.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedLocked()
}

func (s *Session) completedLocked() bool {
	for _, answer := range s.answers {
		if answer == nil {
			return false
		}
	}
	return true
}

// Summary reports run totals. WrongLogSize covers the cumulative log, not
// just this run's misses.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := Summary{
		RunID:      s.runID,
		Total:      len(s.questions),
		Correct:    s.correct,
		StartedAt:  s.startedAt,
		FinishedAt: s.finished,
	}
	if summary.Total > 0 {
		summary.Percent = float64(s.correct) * 100 / float64(summary.Total)
	}
	if s.wrongLog != nil {
		summary.WrongLogSize = s.wrongLog.Len()
	}
	return summary
}

// Close cancels any pending auto-advance. A closed session accepts no
// further scheduled moves; call it when the run is abandoned or replaced.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopAdvanceLocked()
}

func (s *Session) scheduleAdvanceLocked() {
	if s.closed || s.scheduler == nil {
		return
	}
	s.cancelAdvance = s.scheduler.Schedule(AutoAdvanceDelay, s.fireAdvance)
}

func (s *Session) stopAdvanceLocked() {
	if s.cancelAdvance != nil {
		s.cancelAdvance()
		s.cancelAdvance = nil
	}
}

func (s *Session) fireAdvance() {
	s.mu.Lock()
	if s.closed || s.cancelAdvance == nil {
		s.mu.Unlock()
		return
	}
	s.cancelAdvance = nil
	if s.current < len(s.questions)-1 {
		s.current++
		s.warning = ""
	}
	index := s.current
	notify := s.onAdvance
	s.mu.Unlock()

	if notify != nil {
		notify(index)
	}
}

func normalizeSelection(selection []string) []string {
	seen := make(map[string]bool, len(selection))
	letters := make([]string, 0, len(selection))
	for _, raw := range selection {
		letter := strings.ToUpper(strings.TrimSpace(raw))
		if letter == "" || seen[letter] {
			continue
		}
		seen[letter] = true
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}
