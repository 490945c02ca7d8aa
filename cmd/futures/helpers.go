package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/quantrell/many-futures/internal/config"
	"github.com/quantrell/many-futures/internal/storage"
)

// initStorage initializes the run store with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/futures/futures.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
