package communication

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_SendEmail(t *testing.T) {
	var received EmailMessage

	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "", "secret")

	err := provider.SendEmail(context.Background(), EmailMessage{
		To:      "alice@example.com",
		Subject: "Appointment reminder",
		Body:    "See you tomorrow",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "alice@example.com", received.To)
	assert.Equal(t, "Appointment reminder", received.Subject)
}

func TestHTTPProvider_SendSMS_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPProvider("", server.URL, "")

	err := provider.SendSMS(context.Background(), SMSMessage{To: "+15550001111", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestHTTPProvider_Unconfigured(t *testing.T) {
	provider := NewHTTPProvider("", "", "")

	err := provider.SendEmail(context.Background(), EmailMessage{To: "a@b.c", Subject: "s", Body: "b"})
	require.Error(t, err)

	err = provider.SendSMS(context.Background(), SMSMessage{To: "+1", Body: "b"})
	require.Error(t, err)
}
