// Package protocol defines the contracts implemented by pluggable actions.
package protocol

import (
	"context"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/models"
)

// Action is one executable unit of workflow work.
type Action interface {
	Execute(ctx context.Context, actionCtx models.ActionContext, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory creates action instances from their stored configuration and
// describes the configuration they accept.
type ActionFactory interface {
	// ID returns the action type this factory builds (models.ActionType value).
	ID() string

	// Create builds an action from its config map.
	Create(config map[string]any) (Action, error)

	// Schema returns the JSON schema of the config map, used to validate
	// workflow definitions at creation time.
	Schema() map[string]any
}
