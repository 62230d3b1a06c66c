package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
)

func TestNewAction_Defaults(t *testing.T) {
	action, err := NewAction(map[string]any{"url": "https://hooks.example.com/x"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, action.Method)
	assert.Equal(t, 1, action.Retry.Attempts)
}

func TestNewAction_MissingURL(t *testing.T) {
	_, err := NewAction(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestAction_Execute_DefaultPayload(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{"url": server.URL})
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), models.ActionContext{
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
		EntityType:  "appointment",
		EntityID:    "apt-1",
		Data:        map[string]any{"status": "confirmed"},
	}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 200, result["status_code"])
	assert.Equal(t, "exec-1", received["execution_id"])
	assert.Equal(t, "appointment", received["entity_type"])
}

func TestAction_Execute_TemplatedURLAndBody(t *testing.T) {
	var gotPath, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{
		"url":  server.URL + "/entities/{{.id}}",
		"body": `{"name": "{{.customer.name}}"}`,
	})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.ActionContext{
		Data: map[string]any{
			"id":       "apt-9",
			"customer": map[string]any{"name": "Alice"},
		},
	}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "/entities/apt-9", gotPath)
	assert.JSONEq(t, `{"name": "Alice"}`, gotBody)
}

func TestAction_Execute_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": float64(3), "delay": float64(0)},
	})
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), models.ActionContext{}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 200, result["status_code"])
	assert.Equal(t, int32(3), calls.Load())
}

func TestAction_Execute_ClientErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{"url": server.URL})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.ActionContext{}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}
