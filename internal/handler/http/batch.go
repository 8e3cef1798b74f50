package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/utils"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// processBatchRequest is the optional body of POST /process-batch.
type processBatchRequest struct {
	// Force bypasses the scheduler's trigger thresholds.
	Force bool `json:"force"`
}

func (h *Handler) processBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req processBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.processBatch").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.BatchService.RunBatch(ctx, req.Force)
	if err != nil {
		log.Err(err).Bool("force", req.Force).Msg("batch run failed")
		utils.WriteJSON(w, models.ProcessBatchResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	log.Info().Int("processed", resp.Processed).Int("failed", resp.Failed).Msg("batch run finished")
	utils.WriteJSON(w, resp, http.StatusOK)
}

// batchStatus serves GET /process-batch. The endpoint is public, but the
// recent-completed section discloses amounts and is only included when the
// request carries a valid operator token.
func (h *Handler) batchStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	includeRecent := h.isOperator(r)

	resp, err := h.services.BatchService.BatchStatus(ctx, includeRecent)
	if err != nil {
		log.Err(err).Msg("batch status failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// isOperator reports whether the request carries a valid operator bearer
// token. Missing or invalid tokens are not an error here: they simply yield
// the public view.
func (h *Handler) isOperator(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return false
	}

	tokenString, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return false
	}

	_, err = h.services.AuthService.ParseToken(r.Context(), tokenString)
	return err == nil
}
