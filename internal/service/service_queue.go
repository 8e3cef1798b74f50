package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/scheduler"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/utils"
	"github.com/Txrmarcos/offuscate-relay/internal/validators"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// queueService is the concrete implementation of QueueService. All writes
// go through the donation queue repository; the campaign registry is
// consulted on every enqueue so funds can only be directed at known vaults.
type queueService struct {
	queue     store.DonationQueueRepository
	campaigns store.CampaignRepository
	validator validators.Validator
	uuid      *utils.UUIDGenerator
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

func NewQueueService(queue store.DonationQueueRepository, campaigns store.CampaignRepository, validator validators.Validator, sched *scheduler.Scheduler, logger *logger.Logger) QueueService {
	return &queueService{
		queue:     queue,
		campaigns: campaigns,
		validator: validator,
		uuid:      utils.NewUUIDGenerator(),
		scheduler: sched,
		logger:    logger,
	}
}

// EnqueueDonation validates the request against the structural rules and
// the campaign registry, then appends it to the queue.
//
// A duplicate commitment is not an internal failure: the response carries
// the id of the already-queued donation so the submitter can poll it, and
// the error is store.ErrDuplicateCommitment for transport-level mapping.
func (s *queueService) EnqueueDonation(ctx context.Context, req models.EnqueueDonationRequest) (models.EnqueueDonationResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		log.Warn().
			Str("func", "queueService.EnqueueDonation").
			Err(err).
			Msg("enqueue request rejected by validation")
		return models.EnqueueDonationResponse{Error: err.Error()}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	campaign, err := s.campaigns.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		log.Warn().
			Str("func", "queueService.EnqueueDonation").
			Str("campaign_id", req.CampaignID).
			Err(err).
			Msg("campaign lookup failed")
		return models.EnqueueDonationResponse{Error: err.Error()}, fmt.Errorf("campaign lookup: %w", err)
	}
	if campaign.Status != models.CampaignActive {
		return models.EnqueueDonationResponse{Error: ErrCampaignInactive.Error()},
			fmt.Errorf("%w: %s is %s", ErrCampaignInactive, campaign.CampaignID, campaign.Status)
	}
	if campaign.Vault != req.CampaignVault {
		return models.EnqueueDonationResponse{Error: ErrVaultMismatch.Error()},
			fmt.Errorf("%w: campaign %s", ErrVaultMismatch, campaign.CampaignID)
	}

	donation := &models.QueuedDonation{
		ID:             s.uuid.Generate(),
		Commitment:     req.Commitment,
		Nullifier:      req.Nullifier,
		SecretHash:     req.SecretHash,
		Amount:         req.Amount,
		CampaignID:     req.CampaignID,
		CampaignVault:  req.CampaignVault,
		DonorSignature: req.DonorSignature,
		Status:         models.StatusPending,
		Timestamp:      time.Now().UTC(),
	}

	position, err := s.queue.Enqueue(ctx, donation)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateCommitment) {
			existing, lookupErr := s.queue.GetByCommitment(ctx, req.Commitment)
			if lookupErr != nil {
				log.Err(lookupErr).
					Str("func", "queueService.EnqueueDonation").
					Str("commitment", req.Commitment).
					Msg("duplicate commitment but existing record lookup failed")
				return models.EnqueueDonationResponse{Error: err.Error()}, err
			}
			return models.EnqueueDonationResponse{
				DonationID: existing.ID,
				Error:      "commitment already queued",
			}, err
		}

		log.Err(err).
			Str("func", "queueService.EnqueueDonation").
			Msg("enqueue failed")
		return models.EnqueueDonationResponse{Error: err.Error()}, fmt.Errorf("enqueue: %w", err)
	}

	return models.EnqueueDonationResponse{
		Success:                 true,
		DonationID:              donation.ID,
		QueuePosition:           position,
		EstimatedProcessingTime: int64(s.scheduler.MaxQueueAge() / time.Second),
	}, nil
}

func (s *queueService) DonationStatus(ctx context.Context, id string) (models.DonationStatusResponse, error) {
	donation, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return models.DonationStatusResponse{}, fmt.Errorf("donation lookup: %w", err)
	}

	return donationStatusView(donation), nil
}

func (s *queueService) DonationStatusByCommitment(ctx context.Context, commitment string) (models.DonationStatusResponse, error) {
	donation, err := s.queue.GetByCommitment(ctx, commitment)
	if err != nil {
		return models.DonationStatusResponse{}, fmt.Errorf("donation lookup: %w", err)
	}

	return donationStatusView(donation), nil
}

func (s *queueService) QueueStats(ctx context.Context) (models.QueueStatsResponse, error) {
	stats, err := s.queue.Stats(ctx)
	if err != nil {
		return models.QueueStatsResponse{}, fmt.Errorf("queue stats: %w", err)
	}

	state, err := s.queue.QueueState(ctx)
	if err != nil {
		return models.QueueStatsResponse{}, fmt.Errorf("queue state: %w", err)
	}

	return models.QueueStatsResponse{
		QueueStats:    stats,
		LastProcessed: state.LastProcessed,
	}, nil
}

// donationStatusView strips a queue record down to its public shape. Donor
// secrets never appear here; the amount does, because the caller proved
// knowledge of the id or commitment.
func donationStatusView(d models.QueuedDonation) models.DonationStatusResponse {
	return models.DonationStatusResponse{
		ID:          d.ID,
		Commitment:  d.Commitment,
		Amount:      d.Amount,
		CampaignID:  d.CampaignID,
		Status:      d.Status,
		Timestamp:   d.Timestamp,
		ProcessedAt: d.ProcessedAt,
		TxSignature: d.TxSignature,
		FailedStep:  d.FailedStep,
	}
}
