package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS fire_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trigger_name TEXT NOT NULL,
		target TEXT NOT NULL,
		decision TEXT NOT NULL,
		throttle_seconds INTEGER NOT NULL DEFAULT 0,
		evaluated_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fire_history_trigger ON fire_history(trigger_name, target);`,
	`CREATE INDEX IF NOT EXISTS idx_fire_history_evaluated ON fire_history(evaluated_at);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
