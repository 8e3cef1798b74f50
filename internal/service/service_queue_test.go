package service

import (
	"context"
	"crypto/ed25519"
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/scheduler"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/validators"
	"github.com/Txrmarcos/offuscate-relay/models"
)

var testVaultAddress = base58.Encode(make([]byte, 32))

func activeCampaign() models.Campaign {
	return models.Campaign{
		CampaignID: "clean-water",
		Vault:      testVaultAddress,
		Title:      "Clean Water Fund",
		Goal:       10_000_000_000,
		Status:     models.CampaignActive,
		CreatedAt:  time.Now().UTC(),
	}
}

func validEnqueueRequest() models.EnqueueDonationRequest {
	return models.EnqueueDonationRequest{
		Commitment:     strings.Repeat("ab", 32),
		Nullifier:      strings.Repeat("cd", 32),
		SecretHash:     strings.Repeat("ef", 32),
		Amount:         100_000_000,
		CampaignID:     "clean-water",
		CampaignVault:  testVaultAddress,
		DonorSignature: base58.Encode(make([]byte, ed25519.SignatureSize)),
	}
}

func newTestQueueService(queue *stubQueue, campaigns *stubCampaigns) QueueService {
	sched := scheduler.New(scheduler.DefaultMinBatchSize, scheduler.DefaultMaxQueueAge)
	return NewQueueService(queue, campaigns, validators.NewDonationValidator(), sched, logger.Nop())
}

func TestEnqueueDonation_Success(t *testing.T) {
	queue := newStubQueue()
	svc := newTestQueueService(queue, newStubCampaigns(activeCampaign()))

	resp, err := svc.EnqueueDonation(context.Background(), validEnqueueRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.DonationID)
	assert.Equal(t, 1, resp.QueuePosition)
	assert.Equal(t, int64(300), resp.EstimatedProcessingTime)

	stored, err := queue.GetByID(context.Background(), resp.DonationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.False(t, stored.Timestamp.IsZero())
}

func TestEnqueueDonation_ValidationFailure(t *testing.T) {
	svc := newTestQueueService(newStubQueue(), newStubCampaigns(activeCampaign()))

	req := validEnqueueRequest()
	req.Amount = 42

	resp, err := svc.EnqueueDonation(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestEnqueueDonation_UnknownCampaign(t *testing.T) {
	svc := newTestQueueService(newStubQueue(), newStubCampaigns())

	_, err := svc.EnqueueDonation(context.Background(), validEnqueueRequest())
	assert.ErrorIs(t, err, store.ErrCampaignNotFound)
}

func TestEnqueueDonation_InactiveCampaign(t *testing.T) {
	campaign := activeCampaign()
	campaign.Status = models.CampaignClosed

	svc := newTestQueueService(newStubQueue(), newStubCampaigns(campaign))

	_, err := svc.EnqueueDonation(context.Background(), validEnqueueRequest())
	assert.ErrorIs(t, err, ErrCampaignInactive)
}

func TestEnqueueDonation_VaultMismatch(t *testing.T) {
	svc := newTestQueueService(newStubQueue(), newStubCampaigns(activeCampaign()))

	req := validEnqueueRequest()
	other := make([]byte, 32)
	other[0] = 1
	req.CampaignVault = base58.Encode(other)

	_, err := svc.EnqueueDonation(context.Background(), req)
	assert.ErrorIs(t, err, ErrVaultMismatch)
}

func TestEnqueueDonation_DuplicateReturnsExistingID(t *testing.T) {
	queue := newStubQueue()
	svc := newTestQueueService(queue, newStubCampaigns(activeCampaign()))

	first, err := svc.EnqueueDonation(context.Background(), validEnqueueRequest())
	require.NoError(t, err)

	second, err := svc.EnqueueDonation(context.Background(), validEnqueueRequest())
	assert.ErrorIs(t, err, store.ErrDuplicateCommitment)
	assert.False(t, second.Success)
	assert.Equal(t, first.DonationID, second.DonationID)
}

func TestDonationStatus_Success(t *testing.T) {
	queue := newStubQueue()
	seedPending(t, queue, "a", time.Minute)

	svc := newTestQueueService(queue, newStubCampaigns(activeCampaign()))

	status, err := svc.DonationStatus(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", status.ID)
	assert.Equal(t, models.StatusPending, status.Status)
	assert.Equal(t, uint64(100_000_000), status.Amount)
}

func TestDonationStatus_NotFound(t *testing.T) {
	svc := newTestQueueService(newStubQueue(), newStubCampaigns())

	_, err := svc.DonationStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrDonationNotFound)
}

func TestDonationStatusByCommitment(t *testing.T) {
	queue := newStubQueue()
	seedPending(t, queue, "a", time.Minute)

	svc := newTestQueueService(queue, newStubCampaigns())

	status, err := svc.DonationStatusByCommitment(context.Background(), "commitment-a")
	require.NoError(t, err)
	assert.Equal(t, "a", status.ID)

	_, err = svc.DonationStatusByCommitment(context.Background(), "unknown")
	assert.ErrorIs(t, err, store.ErrDonationNotFound)
}

func TestQueueStats(t *testing.T) {
	queue := newStubQueue()
	seedPending(t, queue, "a", time.Minute)
	seedPending(t, queue, "b", time.Minute)
	require.NoError(t, queue.Transition(context.Background(), "b", models.StatusCompleted, store.TransitionFields{}))

	svc := newTestQueueService(queue, newStubCampaigns())

	stats, err := svc.QueueStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Total)
}
