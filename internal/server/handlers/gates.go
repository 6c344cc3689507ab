package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alertgate/alertgate/internal/core/gate"
	apperrors "github.com/alertgate/alertgate/internal/errors"
	"github.com/alertgate/alertgate/internal/metrics"
)

// GatesResponse lists the currently tracked gate entries.
type GatesResponse struct {
	Count   int          `json:"count"`
	Entries []gate.Entry `json:"entries"`
}

// PruneRequest asks the gate to drop entries older than the given duration.
type PruneRequest struct {
	OlderThan string `json:"older_than"`
}

// PruneResponse reports the result of a prune.
type PruneResponse struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

// ResetRequest clears the last-fire record for one gate key.
type ResetRequest struct {
	Operation string `json:"operation"`
	ID        string `json:"id"`
}

// ResetResponse reports whether the key existed.
type ResetResponse struct {
	Reset bool `json:"reset"`
}

// GatesListHandler returns a snapshot of the tracked gate entries.
func GatesListHandler(g *gate.RateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g == nil {
			respondWithError(w, r, apperrors.NewInternalError("gate is not configured"))
			return
		}

		entries := g.Snapshot()
		response := GatesResponse{
			Count:   len(entries),
			Entries: entries,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// GatesPruneHandler drops gate entries whose last fire is older than the
// requested duration. Pruning is an explicit admin action, never automatic.
func GatesPruneHandler(g *gate.RateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g == nil {
			respondWithError(w, r, apperrors.NewInternalError("gate is not configured"))
			return
		}

		var req PruneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid prune payload"))
			return
		}

		olderThan, err := time.ParseDuration(strings.TrimSpace(req.OlderThan))
		if err != nil || olderThan < 0 {
			respondWithError(w, r, apperrors.NewValidationError("older_than must be a non-negative duration such as 24h"))
			return
		}

		removed := g.Prune(olderThan)
		metrics.RecordGatePrune()
		metrics.SetGateTrackedKeys(g.Len())

		response := PruneResponse{
			Removed:   removed,
			Remaining: g.Len(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// GatesResetHandler clears the last-fire record for one key so the next
// matching event fires immediately.
func GatesResetHandler(g *gate.RateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g == nil {
			respondWithError(w, r, apperrors.NewInternalError("gate is not configured"))
			return
		}

		var req ResetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid reset payload"))
			return
		}

		if strings.TrimSpace(req.Operation) == "" {
			respondWithError(w, r, apperrors.NewValidationError("operation is required"))
			return
		}

		response := ResetResponse{
			Reset: g.Reset(req.Operation, req.ID),
		}
		metrics.SetGateTrackedKeys(g.Len())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
