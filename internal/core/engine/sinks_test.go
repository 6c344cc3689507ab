package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alertgate/alertgate/internal/core"
)

func sampleNotification() core.Notification {
	return core.Notification{
		Trigger: "crash-loop",
		Event: core.AlertEvent{
			ID:        "evt-1",
			Name:      "KubePodCrashLooping",
			Status:    "firing",
			Pod:       "payments-7d9f",
			Namespace: "prod",
		},
		Message: "pod is crash looping",
		FiredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestWebhookSinkPostsNotification(t *testing.T) {
	var received core.Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := &WebhookSink{URL: server.URL, Client: server.Client()}

	require.NoError(t, sink.Notify(context.Background(), sampleNotification()))
	require.Equal(t, "crash-loop", received.Trigger)
	require.Equal(t, "payments-7d9f", received.Event.Pod)
}

func TestWebhookSinkRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := &WebhookSink{URL: server.URL, Client: server.Client()}

	err := sink.Notify(context.Background(), sampleNotification())
	require.Error(t, err)
	require.Contains(t, err.Error(), "SINK_DELIVERY_ERROR")
	require.Contains(t, err.Error(), "502")
}

func TestWebhookSinkRequiresURL(t *testing.T) {
	sink := &WebhookSink{}
	require.Error(t, sink.Notify(context.Background(), sampleNotification()))
}

func TestLogSinkRequiresLogger(t *testing.T) {
	sink := &LogSink{}
	require.Error(t, sink.Notify(context.Background(), sampleNotification()))
}
