package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/cashwise/flowcast/internal/common"
	"github.com/cashwise/flowcast/internal/config"
	"github.com/cashwise/flowcast/internal/service"
	"github.com/cashwise/flowcast/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/flowcast/flowcast.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// requireClientID returns the configured client ID or a user-facing error.
func requireClientID() (string, error) {
	clientID := viper.GetString("client")
	if clientID == "" {
		return "", common.NewUserError("no client ID set; pass --client or set client in the config file", common.ErrMissingConfig)
	}
	return clientID, nil
}
