package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// campaignRepository is the PostgreSQL-backed implementation of
// [CampaignRepository].
type campaignRepository struct {
	*DB
	logger *logger.Logger
}

// NewCampaignRepository constructs a [CampaignRepository] backed by the
// provided database connection and logger.
func NewCampaignRepository(db *DB, logger *logger.Logger) CampaignRepository {
	return &campaignRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateCampaign registers a new campaign. Returns [ErrCampaignExists] when
// the campaign id is already registered.
func (r *campaignRepository) CreateCampaign(ctx context.Context, campaign models.Campaign) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, createCampaign,
		campaign.CampaignID,
		campaign.Vault,
		campaign.Title,
		int64(campaign.Goal),
		string(campaign.Status),
		campaign.CreatedAt,
	)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Warn().
				Str("func", "campaignRepository.CreateCampaign").
				Str("campaign_id", campaign.CampaignID).
				Msg("campaign already registered")
			return ErrCampaignExists
		}
		log.Err(err).
			Str("func", "campaignRepository.CreateCampaign").
			Str("campaign_id", campaign.CampaignID).
			Msg("failed to insert campaign")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Info().
		Str("func", "campaignRepository.CreateCampaign").
		Str("campaign_id", campaign.CampaignID).
		Str("vault", campaign.Vault).
		Msg("campaign registered")

	return nil
}

// GetCampaign retrieves a campaign by id.
// Returns [ErrCampaignNotFound] when no record matches.
func (r *campaignRepository) GetCampaign(ctx context.Context, campaignID string) (models.Campaign, error) {
	log := logger.FromContext(ctx)

	var campaign models.Campaign
	var goal, totalRaised int64
	var status string

	err := r.DB.QueryRowContext(ctx, getCampaign, campaignID).Scan(
		&campaign.CampaignID,
		&campaign.Vault,
		&campaign.Title,
		&goal,
		&totalRaised,
		&campaign.DonorCount,
		&status,
		&campaign.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Campaign{}, ErrCampaignNotFound
		}
		log.Err(err).
			Str("func", "campaignRepository.GetCampaign").
			Str("campaign_id", campaignID).
			Msg("failed to scan campaign row")
		return models.Campaign{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	campaign.Goal = uint64(goal)
	campaign.TotalRaised = uint64(totalRaised)
	campaign.Status = models.CampaignStatus(status)

	return campaign, nil
}

// RecordCompletedDonation bumps the campaign's relayed totals after a
// donation completes. Returns [ErrCampaignNotFound] for an unknown id.
func (r *campaignRepository) RecordCompletedDonation(ctx context.Context, campaignID string, amount uint64) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, recordCampaignDonation, campaignID, int64(amount))
	if err != nil {
		log.Err(err).
			Str("func", "campaignRepository.RecordCompletedDonation").
			Str("campaign_id", campaignID).
			Msg("failed to update campaign totals")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "campaignRepository.RecordCompletedDonation").
			Str("campaign_id", campaignID).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected == 0 {
		return ErrCampaignNotFound
	}

	log.Debug().
		Str("func", "campaignRepository.RecordCompletedDonation").
		Str("campaign_id", campaignID).
		Uint64("amount", amount).
		Msg("campaign totals updated")

	return nil
}
