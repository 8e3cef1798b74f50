package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/utils"
	"github.com/Txrmarcos/offuscate-relay/models"
)

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var campaign models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		log.Err(err).Str("func", "*Handler.createCampaign").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.CampaignService.CreateCampaign(ctx, campaign)
	if err != nil {
		log.Err(err).Str("campaign_id", campaign.CampaignID).Msg("campaign registration failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().Str("campaign_id", created.CampaignID).Msg("campaign registered")
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	campaignID := chi.URLParam(r, "campaignID")

	campaign, err := h.services.CampaignService.GetCampaign(ctx, campaignID)
	if err != nil {
		log.Err(err).Str("campaign_id", campaignID).Msg("campaign lookup failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, campaign, http.StatusOK)
}
