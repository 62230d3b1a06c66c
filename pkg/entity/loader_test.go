package entity

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntityRepo struct {
	snapshots map[string]map[string]any
	err       error
}

func (f *fakeEntityRepo) Snapshot(_ context.Context, entityType, entityID string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}

	snapshot, ok := f.snapshots[entityType+"/"+entityID]
	if !ok {
		return nil, errors.New("not found")
	}

	return snapshot, nil
}

func (f *fakeEntityRepo) UpdateStatus(context.Context, string, string, string) error {
	return nil
}

func TestCombinedData_MergesPayloadOverSnapshot(t *testing.T) {
	repo := &fakeEntityRepo{snapshots: map[string]map[string]any{
		"appointment/apt-1": {
			"id":     "apt-1",
			"status": "scheduled",
			"customer": map[string]any{
				"email": "ada@example.com",
			},
		},
	}}
	loader := NewLoader(repo, slog.Default())

	data, err := loader.CombinedData(context.Background(), "appointment", "apt-1", map[string]any{
		"status": "rescheduled",
		"source": "webhook",
	})
	require.NoError(t, err)

	assert.Equal(t, "rescheduled", data["status"], "payload wins on collision")
	assert.Equal(t, "webhook", data["source"])
	assert.Equal(t, "apt-1", data["id"])
}

func TestCombinedData_UnknownTypePassesPayloadThrough(t *testing.T) {
	loader := NewLoader(&fakeEntityRepo{}, slog.Default())

	payload := map[string]any{"key": "value"}
	data, err := loader.CombinedData(context.Background(), "invoice", "inv-1", payload)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestCombinedData_LoadFailureReturnsError(t *testing.T) {
	loader := NewLoader(&fakeEntityRepo{err: errors.New("storage down")}, slog.Default())

	_, err := loader.CombinedData(context.Background(), "customer", "cus-1", nil)
	require.Error(t, err)
}
