// Package entity loads business entity snapshots for condition evaluation.
package entity

import (
	"context"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/persistence"
)

// knownTypes is the set of entity types the loader resolves through storage.
// Events about anything else carry their own payload and are passed through.
var knownTypes = map[string]bool{
	"appointment":    true,
	"customer":       true,
	"payment":        true,
	"tattoo_request": true,
}

// Loader builds the combined data a workflow's conditions and actions see:
// the entity snapshot (including its direct relation) overlaid with the
// triggering event's payload.
type Loader struct {
	entities persistence.EntityRepository
	logger   *slog.Logger
}

// NewLoader creates a new entity loader.
func NewLoader(entities persistence.EntityRepository, logger *slog.Logger) *Loader {
	return &Loader{
		entities: entities,
		logger:   logger.With("module", "entity_loader"),
	}
}

// CombinedData returns the snapshot of (entityType, entityID) merged with the
// event payload; payload keys win on collision. An unknown entity type yields
// the payload unchanged. A storage failure returns an error so that callers
// treat conditions as unmet instead of firing actions against absent data.
func (l *Loader) CombinedData(ctx context.Context, entityType, entityID string, payload map[string]any) (map[string]any, error) {
	if !knownTypes[entityType] || entityID == "" {
		return clone(payload), nil
	}

	snapshot, err := l.entities.Snapshot(ctx, entityType, entityID)
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to load entity snapshot",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err)

		return nil, err
	}

	combined := make(map[string]any, len(snapshot)+len(payload))

	for key, value := range snapshot {
		combined[key] = value
	}

	for key, value := range payload {
		combined[key] = value
	}

	return combined, nil
}

func clone(payload map[string]any) map[string]any {
	combined := make(map[string]any, len(payload))

	for key, value := range payload {
		combined[key] = value
	}

	return combined
}
