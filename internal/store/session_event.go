package store

import (
	"context"
	"fmt"
	"strings"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.appendEvent(ctx, "session_events",
		[]string{"session_id", "set_dir", "action", "questions_served", "correct_answers", "duration_secs"},
		data.SessionID, data.SetDir, data.Action, data.QuestionsServed, data.CorrectAnswers, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.appendEvent(ctx, "answer_events",
		[]string{"session_id", "set_dir", "question_id", "selection", "correct", "time_ms"},
		data.SessionID, data.SetDir, data.QuestionID, data.Selection, boolInt(data.Correct), data.TimeMs,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

// QuerySessionSummaries returns finished sessions, newest first.
func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	where := []string{"action = ?"}
	args := []any{ActionEnd}
	if opts.SetDir != "" {
		where = append(where, "set_dir = ?")
		args = append(args, opts.SetDir)
	}
	if opts.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, opts.SessionID)
	}

	q := `SELECT session_id, set_dir, timestamp, questions_served, correct_answers, duration_secs
		FROM session_events WHERE ` + strings.Join(where, " AND ") + ` ORDER BY sequence DESC`
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var records []SessionSummaryRecord
	for rows.Next() {
		var rec SessionSummaryRecord
		var ts int64
		if err := rows.Scan(&rec.SessionID, &rec.SetDir, &ts,
			&rec.QuestionsServed, &rec.CorrectAnswers, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// QueryAnswers returns answer events in the order they were recorded.
func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error) {
	var where []string
	var args []any
	if opts.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, opts.SessionID)
	}
	if opts.SetDir != "" {
		where = append(where, "set_dir = ?")
		args = append(args, opts.SetDir)
	}

	q := `SELECT id, sequence, timestamp, session_id, set_dir, question_id, selection, correct, time_ms
		FROM answer_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence ASC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var records []AnswerRecord
	for rows.Next() {
		var rec AnswerRecord
		var ts int64
		var correct int
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.SetDir,
			&rec.QuestionID, &rec.Selection, &correct, &rec.TimeMs); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		rec.Correct = correct != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}
