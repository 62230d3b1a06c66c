// Package wait pauses a workflow between actions. The waiting itself is
// handled by the engine's delay scheduling; executing the action is a no-op
// that records how long the workflow waited.
package wait

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/models"
)

type Action struct {
	Minutes int
}

func NewAction(config map[string]any) (*Action, error) {
	minutes, ok := asMinutes(config["minutes"])
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'minutes' in configuration")
	}

	return &Action{Minutes: minutes}, nil
}

// Minutes reads the wait duration from an action's config without building
// the action. The engine uses it to schedule the pause before dispatch.
func Minutes(config map[string]any) int {
	minutes, ok := asMinutes(config["minutes"])
	if !ok {
		return 0
	}

	return minutes
}

func asMinutes(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, v >= 0
	case float64:
		return int(v), v >= 0
	default:
		return 0, false
	}
}

func (a *Action) Execute(ctx context.Context, _ models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger.With("module", "wait_action").DebugContext(ctx, "Wait elapsed", "minutes", a.Minutes)

	return map[string]any{"waited_minutes": a.Minutes}, nil
}
