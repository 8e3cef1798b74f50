package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Txrmarcos/offuscate-relay/internal/ledger"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// stubQueue is an in-memory DonationQueueRepository for service tests.
type stubQueue struct {
	donations map[string]*models.QueuedDonation
	order     []string
	state     models.QueueState
}

func newStubQueue() *stubQueue {
	return &stubQueue{donations: make(map[string]*models.QueuedDonation)}
}

func (s *stubQueue) Enqueue(_ context.Context, d *models.QueuedDonation) (int, error) {
	for _, existing := range s.donations {
		if existing.Commitment == d.Commitment {
			return 0, store.ErrDuplicateCommitment
		}
	}

	copied := *d
	s.donations[d.ID] = &copied
	s.order = append(s.order, d.ID)

	pending := 0
	for _, id := range s.order {
		if s.donations[id].Status == models.StatusPending {
			pending++
		}
	}
	return pending, nil
}

func (s *stubQueue) GetByID(_ context.Context, id string) (models.QueuedDonation, error) {
	d, ok := s.donations[id]
	if !ok {
		return models.QueuedDonation{}, store.ErrDonationNotFound
	}
	return *d, nil
}

func (s *stubQueue) GetByCommitment(_ context.Context, commitment string) (models.QueuedDonation, error) {
	for _, d := range s.donations {
		if d.Commitment == commitment {
			return *d, nil
		}
	}
	return models.QueuedDonation{}, store.ErrDonationNotFound
}

func (s *stubQueue) ListByStatus(_ context.Context, status models.DonationStatus) ([]models.QueuedDonation, error) {
	var out []models.QueuedDonation
	for _, id := range s.order {
		if s.donations[id].Status == status {
			out = append(out, *s.donations[id])
		}
	}
	return out, nil
}

func (s *stubQueue) ListRecentCompleted(_ context.Context, limit int) ([]models.QueuedDonation, error) {
	completed, _ := s.ListByStatus(context.Background(), models.StatusCompleted)
	if len(completed) > limit {
		completed = completed[:limit]
	}
	return completed, nil
}

func (s *stubQueue) Transition(_ context.Context, id string, newStatus models.DonationStatus, fields store.TransitionFields) error {
	d, ok := s.donations[id]
	if !ok {
		return store.ErrDonationNotFound
	}

	d.Status = newStatus
	if fields.TxSignature != "" {
		d.TxSignature = fields.TxSignature
	}
	if fields.FeeTxSignature != "" {
		d.FeeTxSignature = fields.FeeTxSignature
	}
	return nil
}

func (s *stubQueue) RecordResult(ctx context.Context, id string, success bool, fields store.TransitionFields) error {
	newStatus := models.StatusFailed
	if success {
		newStatus = models.StatusCompleted
	}
	if err := s.Transition(ctx, id, newStatus, fields); err != nil {
		return err
	}

	now := time.Now().UTC()
	s.state.LastProcessed = &now
	if success {
		s.state.TotalProcessed++
	} else {
		s.state.TotalFailed++
	}
	return nil
}

func (s *stubQueue) Stats(_ context.Context) (models.QueueStats, error) {
	var stats models.QueueStats
	for _, d := range s.donations {
		switch d.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusFailed:
			stats.Failed++
		}
		stats.Total++
	}
	return stats, nil
}

func (s *stubQueue) QueueState(_ context.Context) (models.QueueState, error) {
	return s.state, nil
}

// stubCampaigns is an in-memory CampaignRepository.
type stubCampaigns struct {
	campaigns map[string]models.Campaign
}

func newStubCampaigns(campaigns ...models.Campaign) *stubCampaigns {
	s := &stubCampaigns{campaigns: make(map[string]models.Campaign)}
	for _, c := range campaigns {
		s.campaigns[c.CampaignID] = c
	}
	return s
}

func (s *stubCampaigns) CreateCampaign(_ context.Context, campaign models.Campaign) error {
	if _, ok := s.campaigns[campaign.CampaignID]; ok {
		return store.ErrCampaignExists
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *stubCampaigns) GetCampaign(_ context.Context, campaignID string) (models.Campaign, error) {
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return models.Campaign{}, store.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *stubCampaigns) RecordCompletedDonation(_ context.Context, campaignID string, amount uint64) error {
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return store.ErrCampaignNotFound
	}
	campaign.TotalRaised += amount
	campaign.DonorCount++
	s.campaigns[campaignID] = campaign
	return nil
}

// stubLedger always succeeds with scripted balance and sequential
// signatures.
type stubLedger struct {
	balance uint64
	nextSig int
}

func (s *stubLedger) Balance(_ context.Context, _ string) (uint64, error) {
	return s.balance, nil
}

func (s *stubLedger) SubmitRedemption(_ context.Context, _ ledger.RedemptionInstruction) (string, error) {
	s.nextSig++
	return fmt.Sprintf("sig-%d", s.nextSig), nil
}

func seedPending(t *testing.T, queue *stubQueue, id string, age time.Duration) {
	t.Helper()

	_, err := queue.Enqueue(context.Background(), &models.QueuedDonation{
		ID:            id,
		Commitment:    "commitment-" + id,
		Nullifier:     "nullifier-" + id,
		SecretHash:    "secret-hash-" + id,
		Amount:        100_000_000,
		CampaignID:    "clean-water",
		CampaignVault: testVaultAddress,
		Status:        models.StatusPending,
		Timestamp:     time.Now().UTC().Add(-age),
	})
	require.NoError(t, err)
}
