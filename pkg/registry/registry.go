// Package registry maps action types onto their factories.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/inkflow/inkflow/pkg/protocol"
)

type Registry struct {
	logger          *slog.Logger
	actionFactories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger.With("module", "registry"),
		actionFactories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
}

func (r *Registry) CreateAction(actionType string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, fmt.Errorf("action type '%s' not registered", actionType)
	}

	return factory.Create(config)
}

// IsActionRegistered checks if an action type is registered.
func (r *Registry) IsActionRegistered(actionType string) bool {
	_, exists := r.actionFactories[actionType]

	return exists
}

// AvailableActions returns the registered action types, sorted.
func (r *Registry) AvailableActions() []string {
	types := make([]string, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	sort.Strings(types)

	return types
}

// HealthCheck reports whether the registry holds at least one action factory.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.actionFactories) == 0 {
		return "No action factories registered", false
	}

	return fmt.Sprintf("%d action factories registered", len(r.actionFactories)), true
}
