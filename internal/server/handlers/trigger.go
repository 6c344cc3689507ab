package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/engine"
	apperrors "github.com/alertgate/alertgate/internal/errors"
	"github.com/alertgate/alertgate/internal/metrics"
	"github.com/alertgate/alertgate/internal/observability"
)

// TriggerRequest is the manual trigger payload accepted on /api/trigger.
type TriggerRequest struct {
	Name        string            `json:"name"`
	Status      string            `json:"status,omitempty"`
	Description string            `json:"description,omitempty"`
	Pod         string            `json:"pod,omitempty"`
	Namespace   string            `json:"namespace,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	Operation   string            `json:"operation,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// TriggerResponse reports the per-trigger outcomes for one event.
type TriggerResponse struct {
	EventID     string              `json:"event_id"`
	Evaluations []engine.Evaluation `json:"evaluations"`
}

// TriggerHandler accepts an alert event and routes it through the dispatcher.
func TriggerHandler(dispatcher *engine.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dispatcher == nil {
			respondWithError(w, r, apperrors.NewInternalError("dispatcher is not configured"))
			return
		}

		var req TriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid trigger payload"))
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			respondWithError(w, r, apperrors.NewValidationError("name is required"))
			return
		}

		operation, ok := core.ParseOperationType(req.Operation)
		if !ok {
			respondWithError(w, r, apperrors.NewValidationError("operation must be create, update, or delete"))
			return
		}

		event := core.AlertEvent{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Status:      req.Status,
			Description: req.Description,
			Pod:         req.Pod,
			Namespace:   req.Namespace,
			Kind:        req.Kind,
			Operation:   operation,
			Labels:      req.Labels,
			StartsAt:    time.Now().UTC(),
		}

		metrics.RecordEventReceived("api")

		evaluations, err := dispatcher.Dispatch(r.Context(), event)
		if err != nil && observability.ServerLogger != nil {
			// Delivery and history failures do not invalidate the gate
			// decisions, so the response still carries the evaluations.
			observability.ServerLogger.Error("dispatch completed with errors",
				zap.String("event_id", event.ID),
				zap.String("name", event.Name),
				zap.Error(err))
		}

		response := TriggerResponse{
			EventID:     event.ID,
			Evaluations: evaluations,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
