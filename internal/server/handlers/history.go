package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/store"
	apperrors "github.com/alertgate/alertgate/internal/errors"
)

// HistoryResponse lists recorded gate evaluations, newest first.
type HistoryResponse struct {
	Count   int               `json:"count"`
	Records []core.FireRecord `json:"records"`
}

// HistoryHandler serves the fire history with optional trigger, target,
// decision, and limit filters.
func HistoryHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s == nil {
			respondWithError(w, r, apperrors.NewInternalError("history store is not configured"))
			return
		}

		query := store.HistoryQuery{
			Trigger: strings.TrimSpace(r.URL.Query().Get("trigger")),
			Target:  strings.TrimSpace(r.URL.Query().Get("target")),
		}

		if decision := strings.TrimSpace(r.URL.Query().Get("decision")); decision != "" {
			switch core.Decision(decision) {
			case core.DecisionFired, core.DecisionSuppressed:
				query.Decision = core.Decision(decision)
			default:
				respondWithError(w, r, apperrors.NewValidationError("decision must be fired or suppressed"))
				return
			}
		}

		if limit := strings.TrimSpace(r.URL.Query().Get("limit")); limit != "" {
			parsed, err := strconv.Atoi(limit)
			if err != nil || parsed <= 0 {
				respondWithError(w, r, apperrors.NewValidationError("limit must be a positive integer"))
				return
			}
			query.Limit = parsed
		}

		if query.Trigger == "" && query.Target == "" && query.Decision == "" {
			query.All = true
		}

		records, err := s.ListHistory(r.Context(), query)
		if err != nil {
			respondWithError(w, r, apperrors.WrapDatabaseError(r.Context(), err, "failed to list fire history"))
			return
		}

		response := HistoryResponse{
			Count:   len(records),
			Records: records,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
