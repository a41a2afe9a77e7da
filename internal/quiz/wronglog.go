package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	"quizdrill/internal/storage"
)

// WrongAnswersKey is the KV key the missed-question log persists under.
const WrongAnswersKey = "ccde_wrong_answers"

// WrongAnswerEntry records the latest miss of one bank question, in
// original-space labeling.
type WrongAnswerEntry struct {
	OriginalNumber   int               `json:"original_number"`
	QuestionText     string            `json:"question_text"`
	Options          map[string]string `json:"options"`
	CorrectAnswer    string            `json:"correct_answer"`
	UserAnswer       string            `json:"user_answer"`
	IsMultipleChoice bool              `json:"is_multiple_choice"`
	Timestamp        time.Time         `json:"timestamp"`
}

// WrongLog keeps at most one entry per original question number, in
// first-seen insertion order. An overwrite keeps the entry's position.
// Every mutation is written through to the KV store.
type WrongLog struct {
	kv            storage.KV
	ordered       []WrongAnswerEntry
	indexByNumber map[int]int
}

// LoadWrongLog reads the persisted log from the store. A missing key means
// an empty log; corrupt stored data also degrades to an empty log.
func LoadWrongLog(kv storage.KV) (*WrongLog, error) {
	log := &WrongLog{
		kv:            kv,
		indexByNumber: make(map[int]int),
	}

	data, ok, err := kv.Get(WrongAnswersKey)
	if err != nil {
		return nil, fmt.Errorf("load wrong-answer log: %w", err)
	}
	if !ok {
		return log, nil
	}

	var entries []WrongAnswerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return log, nil
	}
	for _, entry := range entries {
		if _, dup := log.indexByNumber[entry.OriginalNumber]; dup {
			continue
		}
		log.indexByNumber[entry.OriginalNumber] = len(log.ordered)
		log.ordered = append(log.ordered, entry)
	}
	return log, nil
}

// Upsert inserts or replaces the entry for its original number and
// persists the result.
func (l *WrongLog) Upsert(entry WrongAnswerEntry) error {
	if idx, ok := l.indexByNumber[entry.OriginalNumber]; ok {
		l.ordered[idx] = entry
	} else {
		l.indexByNumber[entry.OriginalNumber] = len(l.ordered)
		l.ordered = append(l.ordered, entry)
	}
	return l.persist()
}

// Clear removes every entry. The confirm flag must be set by the caller;
// without it the log is left untouched.
func (l *WrongLog) Clear(confirm bool) error {
	if !confirm {
		return nil
	}
	l.ordered = nil
	l.indexByNumber = make(map[int]int)
	if err := l.kv.Delete(WrongAnswersKey); err != nil {
		return fmt.Errorf("clear wrong-answer log: %w", err)
	}
	return nil
}

// Entries returns the log in insertion order for display.
func (l *WrongLog) Entries() []WrongAnswerEntry {
	return append([]WrongAnswerEntry(nil), l.ordered...)
}

func (l *WrongLog) Len() int {
	return len(l.ordered)
}

func (l *WrongLog) persist() error {
	data, err := json.Marshal(l.ordered)
	if err != nil {
		return fmt.Errorf("encode wrong-answer log: %w", err)
	}
	if err := l.kv.Set(WrongAnswersKey, data); err != nil {
		return fmt.Errorf("persist wrong-answer log: %w", err)
	}
	return nil
}
