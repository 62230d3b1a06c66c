package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inkflow/inkflow/pkg/persistence"
)

// entityRelations mirrors the relation embedding of the SQL backend: the
// snapshot of an entity includes its direct relation loaded via the
// "<relation>_id" field.
var entityRelations = map[string]string{
	"appointment":    "customer",
	"payment":        "customer",
	"tattoo_request": "customer",
	"customer":       "",
}

var fileStatusUpdatable = map[string]bool{
	"appointment":    true,
	"tattoo_request": true,
	"payment":        true,
}

// EntityRepository stores entities as JSON files under <root>/entities/<type>.
type EntityRepository struct {
	root string
	mu   sync.RWMutex
}

// NewEntityRepository creates a new entity repository.
func NewEntityRepository(root string) *EntityRepository {
	return &EntityRepository{root: root}
}

// SaveEntity writes an entity document. Used to seed development data and tests.
func (er *EntityRepository) SaveEntity(entityType, entityID string, document map[string]any) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	return writeJSON(er.dir(entityType), entityID, document)
}

// Snapshot returns the entity document with its direct relation embedded.
func (er *EntityRepository) Snapshot(_ context.Context, entityType, entityID string) (map[string]any, error) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	relation, supported := entityRelations[entityType]
	if !supported {
		return nil, fmt.Errorf("snapshot of %q: %w", entityType, persistence.ErrUnsupportedEntityType)
	}

	document, err := er.load(entityType, entityID)
	if err != nil {
		return nil, err
	}

	if relation != "" {
		relationID, _ := document[relation+"_id"].(string)
		if relationID != "" {
			related, err := er.load(relation, relationID)
			if err == nil {
				document[relation] = related
			} else if !persistence.IsEntityNotFound(err) {
				return nil, err
			}
		}
	}

	return document, nil
}

// UpdateStatus rewrites the status field of an updatable entity.
func (er *EntityRepository) UpdateStatus(_ context.Context, entityType, entityID, status string) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	if !fileStatusUpdatable[entityType] {
		return fmt.Errorf("update status of %q: %w", entityType, persistence.ErrUnsupportedEntityType)
	}

	document, err := er.load(entityType, entityID)
	if err != nil {
		return err
	}

	document["status"] = status
	document["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	return writeJSON(er.dir(entityType), entityID, document)
}

func (er *EntityRepository) dir(entityType string) string {
	return filepath.Join(er.root, "entities", entityType)
}

func (er *EntityRepository) load(entityType, entityID string) (map[string]any, error) {
	document := make(map[string]any)

	err := readJSON(er.dir(entityType), entityID, &document)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %s: %w", entityType, entityID, persistence.ErrEntityNotFound)
		}

		return nil, fmt.Errorf("failed to load %s %s: %w", entityType, entityID, err)
	}

	return document, nil
}
