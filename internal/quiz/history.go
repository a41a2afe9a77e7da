package quiz

import (
	"context"
	"time"
)

// RunRecord is the persisted trace of one finished run.
type RunRecord struct {
	RunID      string
	Bank       string
	Mode       Mode
	Total      int
	Correct    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// History stores finished runs.
type History interface {
	RecordRun(ctx context.Context, record RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}

// RecordFor builds the history record for a session's summary.
func RecordFor(summary Summary, bankName string, mode Mode) RunRecord {
	return RunRecord{
		RunID:      summary.RunID,
		Bank:       bankName,
		Mode:       mode,
		Total:      summary.Total,
		Correct:    summary.Correct,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
	}
}
