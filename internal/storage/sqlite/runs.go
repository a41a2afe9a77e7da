package sqlite

import (
	"context"
	"errors"
	"time"

	"quizdrill/internal/quiz"
)

// RecordRun implements quiz.History.
func (s *Store) RecordRun(ctx context.Context, record quiz.RunRecord) error {
	if record.RunID == "" {
		return errors.New("run id is required")
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO runs (run_id, bank, mode, total, correct, started_at_unix, finished_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.Bank,
		string(record.Mode),
		record.Total,
		record.Correct,
		record.StartedAt.UnixNano(),
		record.FinishedAt.UnixNano(),
	)
	return err
}

// ListRuns implements quiz.History, newest finished first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]quiz.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, bank, mode, total, correct, started_at_unix, finished_at_unix
		 FROM runs
		 ORDER BY finished_at_unix DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]quiz.RunRecord, 0)
	for rows.Next() {
		var (
			record         quiz.RunRecord
			mode           string
			startedAtUnix  int64
			finishedAtUnix int64
		)
		if err := rows.Scan(&record.RunID, &record.Bank, &mode, &record.Total,
			&record.Correct, &startedAtUnix, &finishedAtUnix); err != nil {
			return nil, err
		}
		record.Mode = quiz.Mode(mode)
		record.StartedAt = time.Unix(0, startedAtUnix).UTC()
		record.FinishedAt = time.Unix(0, finishedAtUnix).UTC()
		records = append(records, record)
	}

	return records, rows.Err()
}
