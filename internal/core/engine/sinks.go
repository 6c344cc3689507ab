package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/core"
	errwrap "github.com/alertgate/alertgate/internal/errors"
)

// Notifier delivers fired notifications somewhere useful.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, notification core.Notification) error
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	Logger *logging.Logger
}

// Name implements Notifier.
func (s *LogSink) Name() string { return "log" }

// Notify implements Notifier.
func (s *LogSink) Notify(_ context.Context, notification core.Notification) error {
	if s == nil || s.Logger == nil {
		return errors.New("log sink has no logger")
	}

	s.Logger.Info("Notification fired",
		zap.String("trigger", notification.Trigger),
		zap.String("alert", notification.Event.Name),
		zap.String("target", notification.Event.TargetID()),
		zap.String("namespace", notification.Event.Namespace),
		zap.String("status", notification.Event.Status),
		zap.String("message", notification.Message))
	return nil
}

// WebhookSink POSTs notifications as JSON to a configured URL.
type WebhookSink struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// Name implements Notifier.
func (s *WebhookSink) Name() string { return "webhook" }

// Notify implements Notifier.
func (s *WebhookSink) Notify(ctx context.Context, notification core.Notification) error {
	if s == nil || s.URL == "" {
		return errors.New("webhook sink has no url")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errwrap.NewSinkDeliveryError(fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}
