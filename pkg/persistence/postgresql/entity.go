package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/persistence"
)

// entityTables maps the supported entity types onto their tables and the
// name of the embedded relation loaded with each snapshot.
var entityTables = map[string]struct {
	table    string
	relation string // related entity type loaded via <relation>_id, empty for none
}{
	"appointment":    {table: "appointments", relation: "customer"},
	"customer":       {table: "customers"},
	"payment":        {table: "payments", relation: "customer"},
	"tattoo_request": {table: "tattoo_requests", relation: "customer"},
}

// statusUpdatable is the subset of entity types whose status workflows may
// rewrite through the update_status action.
var statusUpdatable = map[string]bool{
	"appointment":    true,
	"tattoo_request": true,
	"payment":        true,
}

// EntityRepository loads business entity snapshots as generic documents.
type EntityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewEntityRepository creates a new entity repository.
func NewEntityRepository(db *sql.DB, logger *slog.Logger) *EntityRepository {
	return &EntityRepository{db: db, logger: logger}
}

// Snapshot returns the entity row as a document, with its direct relation
// embedded under the relation's type name ("customer").
func (r *EntityRepository) Snapshot(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	spec, ok := entityTables[entityType]
	if !ok {
		return nil, fmt.Errorf("snapshot of %q: %w", entityType, persistence.ErrUnsupportedEntityType)
	}

	snapshot, err := r.loadRow(ctx, spec.table, entityID)
	if err != nil {
		return nil, err
	}

	if spec.relation != "" {
		relationID, _ := snapshot[spec.relation+"_id"].(string)
		if relationID != "" {
			relation, err := r.loadRow(ctx, entityTables[spec.relation].table, relationID)
			if err == nil {
				snapshot[spec.relation] = relation
			} else if !errors.Is(err, sql.ErrNoRows) && !persistence.IsEntityNotFound(err) {
				return nil, err
			}
		}
	}

	return snapshot, nil
}

// UpdateStatus writes a new status onto the entity. Only appointment,
// tattoo_request and payment rows are updatable.
func (r *EntityRepository) UpdateStatus(ctx context.Context, entityType, entityID, status string) error {
	if !statusUpdatable[entityType] {
		return fmt.Errorf("update status of %q: %w", entityType, persistence.ErrUnsupportedEntityType)
	}

	spec := entityTables[entityType]

	// The table name comes from the static whitelist above, never from input.
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1`, spec.table),
		entityID, status)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", entityType, entityID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", entityType, entityID, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s %s: %w", entityType, entityID, persistence.ErrEntityNotFound)
	}

	return nil
}

// loadRow fetches one row as a JSON document using row_to_json, so the engine
// sees whatever columns the table actually has.
func (r *EntityRepository) loadRow(ctx context.Context, table, id string) (map[string]any, error) {
	query := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t WHERE id = $1`, table)

	var raw []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", table, id, persistence.ErrEntityNotFound)
		}

		return nil, fmt.Errorf("failed to load %s %s: %w", table, id, err)
	}

	document := make(map[string]any)

	err = json.Unmarshal(raw, &document)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", table, id, err)
	}

	return document, nil
}
