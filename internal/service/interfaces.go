package service

import (
	"context"

	"github.com/Txrmarcos/offuscate-relay/models"
)

// QueueService is the ingress side of the donation queue.
type QueueService interface {
	// EnqueueDonation validates and appends a donation request. On a
	// duplicate commitment the response carries the existing donation id
	// and the returned error is store.ErrDuplicateCommitment.
	EnqueueDonation(ctx context.Context, req models.EnqueueDonationRequest) (models.EnqueueDonationResponse, error)

	// DonationStatus looks a donation up by queue id.
	DonationStatus(ctx context.Context, id string) (models.DonationStatusResponse, error)

	// DonationStatusByCommitment looks a donation up by its commitment.
	DonationStatusByCommitment(ctx context.Context, commitment string) (models.DonationStatusResponse, error)

	// QueueStats returns the aggregate queue counters.
	QueueStats(ctx context.Context) (models.QueueStatsResponse, error)
}

// BatchService drives and inspects batch processing.
type BatchService interface {
	// RunBatch triggers one processing run. force bypasses the scheduler's
	// trigger threshold.
	RunBatch(ctx context.Context, force bool) (models.ProcessBatchResponse, error)

	// BatchStatus reports the scheduler state. includeRecent additionally
	// lists the last completed donations (operator only).
	BatchStatus(ctx context.Context, includeRecent bool) (models.BatchStatusResponse, error)
}

// CampaignService manages the campaign registry.
type CampaignService interface {
	CreateCampaign(ctx context.Context, campaign models.Campaign) (models.Campaign, error)
	GetCampaign(ctx context.Context, campaignID string) (models.Campaign, error)
}

// AuthService issues and verifies operator tokens.
type AuthService interface {
	CreateToken(ctx context.Context, operatorID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes the application version.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
