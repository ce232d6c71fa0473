package store

import (
	"context"
	"fmt"
	"strings"
)

// appendEvent inserts one row into table. Every journal table shares the
// counter in journal_sequence, so answers, session markers and LLM calls
// can be ordered against each other; the bump and the insert commit
// together so a failed insert never burns a number.
func (r *eventRepo) appendEvent(ctx context.Context, table string, columns []string, values ...any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s insert: %w", table, err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE journal_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	cols := append([]string{"sequence", "timestamp"}, columns...)
	args := append([]any{seq, r.stamp()}, values...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), marks)
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return tx.Commit()
}

// lastSequence reports the most recently issued sequence number, 0 when the
// journal is empty.
func (r *eventRepo) lastSequence(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.QueryRowContext(ctx, `SELECT next_val FROM journal_sequence WHERE id = 1`).Scan(&next); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	return next - 1, nil
}
