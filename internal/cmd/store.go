package cmd

import (
	"context"
	"fmt"

	"github.com/alertgate/alertgate/internal/config"
	"github.com/alertgate/alertgate/internal/core/store"
)

func openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := config.FromViper(nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
