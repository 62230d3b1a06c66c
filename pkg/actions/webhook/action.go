// Package webhook posts workflow data to external HTTP endpoints.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/template"
)

const defaultTimeoutSeconds = 30

// ErrServerError is returned when the endpoint answers with a 5xx status and
// retries are exhausted.
var ErrServerError = errors.New("server error during webhook request")

// Action performs an HTTP request to a configured URL. URL, headers and body
// are templates rendered against the execution data; an empty body sends the
// execution data itself as JSON.
type Action struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
	Timeout time.Duration
	Retry   RetryConfig
}

// RetryConfig defines retry behavior for webhook requests.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

func NewAction(config map[string]any) (*Action, error) {
	url, _ := config["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("missing 'url' in configuration")
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	body, _ := config["body"].(string)

	headers := make(map[string]string)

	if headersConfig, ok := config["headers"].(map[string]any); ok {
		for k, v := range headersConfig {
			if strVal, ok := v.(string); ok {
				headers[k] = strVal
			}
		}
	}

	retry := RetryConfig{Attempts: 1}
	if retryConfig, ok := config["retry"].(map[string]any); ok {
		if attempts, ok := retryConfig["attempts"].(float64); ok && attempts >= 1 {
			retry.Attempts = int(attempts)
		}

		if delay, ok := retryConfig["delay"].(float64); ok && delay >= 0 {
			retry.Delay = time.Duration(delay) * time.Second
		}
	}

	return &Action{
		URL:     url,
		Method:  strings.ToUpper(method),
		Headers: headers,
		Body:    body,
		Timeout: defaultTimeoutSeconds * time.Second,
		Retry:   retry,
	}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("module", "webhook_action")

	var (
		lastErr error
		resp    *http.Response
	)

	for attempt := 1; attempt <= a.Retry.Attempts; attempt++ {
		if attempt > 1 {
			logger.InfoContext(ctx, fmt.Sprintf("Webhook retry attempt %d/%d", attempt, a.Retry.Attempts))
			time.Sleep(a.Retry.Delay)
		}

		req, err := a.buildRequest(ctx, actionCtx)
		if err != nil {
			return nil, err
		}

		client := &http.Client{Timeout: a.Timeout}

		resp, err = client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("webhook request failed: %w", err)

			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < a.Retry.Attempts {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("status %d: %w", resp.StatusCode, ErrServerError)
			resp = nil

			continue
		}

		break
	}

	if resp == nil {
		return nil, fmt.Errorf("all retry attempts failed, last error: %w", lastErr)
	}

	return a.processResponse(ctx, resp, logger)
}

func (a *Action) buildRequest(ctx context.Context, actionCtx models.ActionContext) (*http.Request, error) {
	url, err := template.RenderString(a.URL, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render url template: %w", err)
	}

	body, err := a.buildBody(actionCtx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, a.Method, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for key, value := range a.Headers {
		rendered, err := template.RenderString(value, actionCtx.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to render header '%s' template: %w", key, err)
		}

		req.Header.Set(key, rendered)
	}

	return req, nil
}

func (a *Action) buildBody(actionCtx models.ActionContext) (string, error) {
	if a.Body != "" {
		body, err := template.RenderString(a.Body, actionCtx.Data)
		if err != nil {
			return "", fmt.Errorf("failed to render body template: %w", err)
		}

		return body, nil
	}

	payload, err := json.Marshal(map[string]any{
		"execution_id": actionCtx.ExecutionID,
		"workflow_id":  actionCtx.WorkflowID,
		"entity_type":  actionCtx.EntityType,
		"entity_id":    actionCtx.EntityID,
		"data":         actionCtx.Data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	return string(payload), nil
}

func (a *Action) processResponse(ctx context.Context, resp *http.Response, logger *slog.Logger) (map[string]any, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var body any

	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		body = string(bodyBytes)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	logger.InfoContext(ctx, "Webhook delivered", "status_code", resp.StatusCode)

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        body,
	}, nil
}
