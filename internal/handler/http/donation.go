package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/utils"
	"github.com/Txrmarcos/offuscate-relay/models"
)

func (h *Handler) enqueueDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.EnqueueDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.enqueueDonation").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.QueueService.EnqueueDonation(ctx, req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateCommitment) {
			// the response already carries the existing donation id
			log.Err(err).Str("donation_id", resp.DonationID).Msg("duplicate commitment")
			utils.WriteJSON(w, resp, http.StatusConflict)
			return
		}

		log.Err(err).Str("func", "*Handler.enqueueDonation").Msg("error enqueueing donation")
		utils.WriteJSON(w, models.EnqueueDonationResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	log.Debug().Str("donation_id", resp.DonationID).Int("position", resp.QueuePosition).Msg("donation queued")
	utils.WriteJSON(w, resp, http.StatusOK)
}

// queueLookup serves GET /queue-donation. With an id or commitment query
// parameter it returns the public view of a single donation; without either
// it returns the aggregate queue counters.
func (h *Handler) queueLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id := r.URL.Query().Get("id")
	commitment := r.URL.Query().Get("commitment")

	switch {
	case id != "":
		resp, err := h.services.QueueService.DonationStatus(ctx, id)
		if err != nil {
			log.Err(err).Str("donation_id", id).Msg("donation lookup failed")
			http.Error(w, err.Error(), statusFromError(err))
			return
		}
		utils.WriteJSON(w, resp, http.StatusOK)

	case commitment != "":
		resp, err := h.services.QueueService.DonationStatusByCommitment(ctx, commitment)
		if err != nil {
			log.Err(err).Msg("donation lookup by commitment failed")
			http.Error(w, err.Error(), statusFromError(err))
			return
		}
		utils.WriteJSON(w, resp, http.StatusOK)

	default:
		resp, err := h.services.QueueService.QueueStats(ctx)
		if err != nil {
			log.Err(err).Msg("queue stats failed")
			http.Error(w, err.Error(), statusFromError(err))
			return
		}
		utils.WriteJSON(w, resp, http.StatusOK)
	}
}
