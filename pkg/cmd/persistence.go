// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/persistence/file"
	"github.com/inkflow/inkflow/pkg/persistence/postgresql"
)

// NewPersistence builds the storage backend from the database URL. A
// postgres:// URL selects PostgreSQL; anything else is treated as a local
// directory path for the file backend.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
