package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultTimeoutSeconds = 30

// HTTPProvider posts messages as JSON to an external messaging gateway.
type HTTPProvider struct {
	emailURL string
	smsURL   string
	apiKey   string
	client   *http.Client
}

// NewHTTPProvider builds a provider for the given gateway endpoints.
func NewHTTPProvider(emailURL, smsURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		emailURL: emailURL,
		smsURL:   smsURL,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: defaultTimeoutSeconds * time.Second,
		},
	}
}

// NewHTTPProviderFromEnv reads the gateway endpoints from COMM_EMAIL_URL,
// COMM_SMS_URL and COMM_API_KEY. It returns nil when no endpoint is
// configured so callers can fall back to the log provider.
func NewHTTPProviderFromEnv() *HTTPProvider {
	emailURL := os.Getenv("COMM_EMAIL_URL")
	smsURL := os.Getenv("COMM_SMS_URL")

	if emailURL == "" && smsURL == "" {
		return nil
	}

	return NewHTTPProvider(emailURL, smsURL, os.Getenv("COMM_API_KEY"))
}

func (p *HTTPProvider) SendEmail(ctx context.Context, msg EmailMessage) error {
	if p.emailURL == "" {
		return fmt.Errorf("email gateway is not configured")
	}

	return p.post(ctx, p.emailURL, msg)
}

func (p *HTTPProvider) SendSMS(ctx context.Context, msg SMSMessage) error {
	if p.smsURL == "" {
		return fmt.Errorf("sms gateway is not configured")
	}

	return p.post(ctx, p.smsURL, msg)
}

func (p *HTTPProvider) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return nil
}
