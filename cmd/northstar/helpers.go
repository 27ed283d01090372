package main

import (
	"context"
	"fmt"

	"github.com/canadianinsights/northstar/internal/config"
	"github.com/canadianinsights/northstar/internal/engine"
	"github.com/canadianinsights/northstar/internal/model"
	"github.com/canadianinsights/northstar/internal/storage"

	"github.com/spf13/viper"
)

// categorizer is the slice of the engine the categorize command needs.
type categorizer interface {
	Categorize(ctx context.Context, userID, rawDescription string) (model.Decision, error)
}

// initStorage opens the rules database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// initEngine wires the categorization engine and its admin write path over
// a shared pattern cache.
func initEngine(store *storage.SQLiteStorage) (*engine.Engine, *engine.Admin) {
	cache := engine.NewPatternCache(store)
	return engine.New(store, cache), engine.NewAdmin(store, cache)
}
