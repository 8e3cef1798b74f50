package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// campaignService is the concrete implementation of CampaignService.
type campaignService struct {
	campaigns store.CampaignRepository
	logger    *logger.Logger
}

func NewCampaignService(campaigns store.CampaignRepository, logger *logger.Logger) CampaignService {
	return &campaignService{
		campaigns: campaigns,
		logger:    logger,
	}
}

// CreateCampaign registers a campaign after checking the vault address
// decodes to a well-formed account key.
func (s *campaignService) CreateCampaign(ctx context.Context, campaign models.Campaign) (models.Campaign, error) {
	log := logger.FromContext(ctx)

	if campaign.CampaignID == "" || campaign.Title == "" {
		return models.Campaign{}, ErrInvalidDataProvided
	}

	decoded, err := base58.Decode(campaign.Vault)
	if err != nil || len(decoded) != 32 {
		log.Warn().
			Str("func", "campaignService.CreateCampaign").
			Str("campaign_id", campaign.CampaignID).
			Msg("invalid vault address")
		return models.Campaign{}, fmt.Errorf("%w: vault address", ErrInvalidDataProvided)
	}

	if campaign.Status == "" {
		campaign.Status = models.CampaignActive
	}
	campaign.CreatedAt = time.Now().UTC()
	campaign.TotalRaised = 0
	campaign.DonorCount = 0

	if err = s.campaigns.CreateCampaign(ctx, campaign); err != nil {
		return models.Campaign{}, fmt.Errorf("campaign creation: %w", err)
	}

	return campaign, nil
}

func (s *campaignService) GetCampaign(ctx context.Context, campaignID string) (models.Campaign, error) {
	campaign, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return models.Campaign{}, fmt.Errorf("campaign lookup: %w", err)
	}

	return campaign, nil
}
