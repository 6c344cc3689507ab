package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alertgate/alertgate/internal/core"
)

// RecordFire appends one gate evaluation to the history.
func (s *Store) RecordFire(ctx context.Context, record core.FireRecord) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(record.Trigger) == "" {
		return errors.New("trigger is required")
	}
	if record.Decision != core.DecisionFired && record.Decision != core.DecisionSuppressed {
		return fmt.Errorf("unknown decision: %s", record.Decision)
	}

	evaluatedAt := record.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO fire_history (trigger_name, target, decision, throttle_seconds, evaluated_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.Trigger, record.Target, string(record.Decision), int64(record.Throttle/time.Second), evaluatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("record fire: %w", err)
	}

	return nil
}

// HistoryQuery selects fire history rows.
type HistoryQuery struct {
	All      bool
	Trigger  string
	Target   string
	Decision core.Decision
	Limit    int
}

// Validate checks that the query selects something.
func (q HistoryQuery) Validate() error {
	if q.All {
		return nil
	}
	if strings.TrimSpace(q.Trigger) != "" {
		return nil
	}
	if strings.TrimSpace(q.Target) != "" {
		return nil
	}
	if q.Decision != "" {
		return nil
	}
	return errors.New("must specify --all, --trigger, --target, or --decision")
}

func (q HistoryQuery) whereClause() (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	conditions := []string{}
	args := []any{}
	if trigger := strings.TrimSpace(q.Trigger); trigger != "" {
		conditions = append(conditions, "trigger_name = ?")
		args = append(args, trigger)
	}
	if target := strings.TrimSpace(q.Target); target != "" {
		conditions = append(conditions, "target = ?")
		args = append(args, target)
	}
	if q.Decision != "" {
		conditions = append(conditions, "decision = ?")
		args = append(args, string(q.Decision))
	}

	if len(conditions) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, nil
}

// ListHistory returns matching fire records, newest first.
func (s *Store) ListHistory(ctx context.Context, q HistoryQuery) ([]core.FireRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, trigger_name, target, decision, throttle_seconds, evaluated_at
		FROM fire_history
		%s
		ORDER BY evaluated_at DESC, id DESC
		LIMIT ?
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list fire history: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	records := []core.FireRecord{}
	for rows.Next() {
		var (
			record          core.FireRecord
			decision        string
			throttleSeconds int64
			evaluatedAt     int64
		)
		if err := rows.Scan(&record.ID, &record.Trigger, &record.Target, &decision, &throttleSeconds, &evaluatedAt); err != nil {
			return nil, fmt.Errorf("scan fire history: %w", err)
		}
		record.Decision = core.Decision(decision)
		record.Throttle = time.Duration(throttleSeconds) * time.Second
		record.EvaluatedAt = time.Unix(evaluatedAt, 0).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fire history: %w", err)
	}

	return records, nil
}

// CountHistory returns the number of matching fire records.
func (s *Store) CountHistory(ctx context.Context, q HistoryQuery) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM fire_history
		%s
	`, where), args...)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count fire history: %w", err)
	}
	return count, nil
}

// PurgeHistory deletes records evaluated before the cutoff and returns the
// number removed.
func (s *Store) PurgeHistory(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `
		DELETE FROM fire_history
		WHERE evaluated_at < ?
	`, before.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge fire history: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge fire history: %w", err)
	}
	return affected, nil
}
