// Package unimplemented registers action types that are part of the workflow
// vocabulary but whose execution is not wired to a backend yet. Executing one
// fails the individual action while the rest of the workflow continues.
package unimplemented

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/protocol"
)

// ErrNotImplemented marks action types that are registered but not yet
// executable.
var ErrNotImplemented = errors.New("action type is not implemented")

type Action struct {
	actionType string
}

func (a *Action) Execute(ctx context.Context, _ models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger.WarnContext(ctx, "Skipping unimplemented action", "action_type", a.actionType)

	return nil, fmt.Errorf("action '%s': %w", a.actionType, ErrNotImplemented)
}

// ActionFactory builds placeholder actions for one action type.
type ActionFactory struct {
	actionType models.ActionType
}

func NewActionFactory(actionType models.ActionType) *ActionFactory {
	return &ActionFactory{actionType: actionType}
}

func (f *ActionFactory) ID() string {
	return string(f.actionType)
}

func (f *ActionFactory) Create(_ map[string]any) (protocol.Action, error) {
	return &Action{actionType: string(f.actionType)}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return nil
}
