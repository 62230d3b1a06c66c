package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/protocol"
)

type stubAction struct{}

func (stubAction) Execute(_ context.Context, _ models.ActionContext, _ *slog.Logger) (map[string]any, error) {
	return map[string]any{"ok": true}, nil
}

type stubFactory struct {
	id     string
	schema map[string]any
}

func (f stubFactory) ID() string { return f.id }

func (f stubFactory) Create(_ map[string]any) (protocol.Action, error) {
	return stubAction{}, nil
}

func (f stubFactory) Schema() map[string]any { return f.schema }

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry(slog.Default())

	r.RegisterAction(stubFactory{id: "send_email"})
	r.RegisterAction(stubFactory{id: "webhook"})

	assert.True(t, r.IsActionRegistered("send_email"))
	assert.False(t, r.IsActionRegistered("send_fax"))
	assert.Equal(t, []string{"send_email", "webhook"}, r.AvailableActions())

	action, err := r.CreateAction("send_email", nil)
	require.NoError(t, err)
	require.NotNil(t, action)

	_, err = r.CreateAction("send_fax", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_ValidateActionConfig(t *testing.T) {
	r := NewRegistry(slog.Default())
	r.RegisterAction(stubFactory{
		id: "send_email",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"subject": map[string]any{"type": "string"},
				"body":    map[string]any{"type": "string"},
			},
			"required":             []string{"subject", "body"},
			"additionalProperties": false,
		},
	})
	r.RegisterAction(stubFactory{id: "wait"})

	err := r.ValidateActionConfig("send_email", map[string]any{
		"subject": "hello",
		"body":    "world",
	})
	require.NoError(t, err)

	err = r.ValidateActionConfig("send_email", map[string]any{"subject": "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	err = r.ValidateActionConfig("send_email", map[string]any{
		"subject": "hello",
		"body":    "world",
		"cc":      "x",
	})
	require.Error(t, err)

	// No schema means any config is accepted.
	require.NoError(t, r.ValidateActionConfig("wait", map[string]any{"anything": 1}))

	err = r.ValidateActionConfig("missing", nil)
	require.Error(t, err)
}

func TestRegistry_HealthCheck(t *testing.T) {
	r := NewRegistry(slog.Default())

	msg, ok := r.HealthCheck()
	assert.False(t, ok)
	assert.Contains(t, msg, "No action factories")

	r.RegisterAction(stubFactory{id: "wait"})

	msg, ok = r.HealthCheck()
	assert.True(t, ok)
	assert.Contains(t, msg, "1 action factories")
}
