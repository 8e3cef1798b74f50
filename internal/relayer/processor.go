// Package relayer drains the donation queue: it submits the redemption
// transactions for each batch the scheduler selects and records every
// outcome durably as it goes.
package relayer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/fees"
	"github.com/Txrmarcos/offuscate-relay/internal/ledger"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/scheduler"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// Config holds the processor's operational knobs.
type Config struct {
	// Account is the relayer's base58 ledger address whose balance is
	// checked before every batch.
	Account string

	// FeeAccount receives the relayer's fee leg of every redemption.
	FeeAccount string

	// FeeRate is the relayer's cut in [0, 1).
	FeeRate float64

	// MinBalance is the lamport floor below which no batch starts.
	MinBalance uint64

	// CallTimeout bounds each individual ledger submission.
	CallTimeout time.Duration

	// BaseDelay and Jitter shape the randomized pause between items:
	// each wait is BaseDelay plus a uniform draw from [0, Jitter).
	BaseDelay time.Duration
	Jitter    time.Duration
}

// Outcome summarizes one processing run.
type Outcome struct {
	Processed int
	Failed    int
	Results   []models.DonationResult
}

// Processor relays queued donations to the ledger one batch at a time.
// Items inside a batch run strictly sequentially with a randomized delay
// between submissions, so observers of the ledger cannot pair queue arrival
// order with transaction order.
type Processor struct {
	queue     store.DonationQueueRepository
	campaigns store.CampaignRepository
	ledger    ledger.Client
	scheduler *scheduler.Scheduler
	cfg       Config
	logger    *logger.Logger

	mu sync.Mutex
}

func NewProcessor(queue store.DonationQueueRepository, campaigns store.CampaignRepository, client ledger.Client, sched *scheduler.Scheduler, cfg Config, log *logger.Logger) *Processor {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}

	return &Processor{
		queue:     queue,
		campaigns: campaigns,
		ledger:    client,
		scheduler: sched,
		cfg:       cfg,
		logger:    log,
	}
}

// Process runs one batch. When force is false the scheduler's trigger
// conditions decide whether a batch runs at all; a manual trigger passes
// force to drain whatever is pending.
//
// Returns [ErrBatchInProgress] when another run holds the batch lock,
// [ErrNothingToProcess] when the queue is empty or the trigger threshold is
// not met, and [ErrRelayerUnderfunded] when the balance floor fails. In all
// three cases the queue is untouched.
func (p *Processor) Process(ctx context.Context, force bool) (Outcome, error) {
	log := logger.FromContext(ctx)

	if !p.mu.TryLock() {
		return Outcome{}, ErrBatchInProgress
	}
	defer p.mu.Unlock()

	pending, err := p.queue.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return Outcome{}, fmt.Errorf("listing pending donations: %w", err)
	}

	if len(pending) == 0 {
		return Outcome{}, ErrNothingToProcess
	}
	if !force && !p.scheduler.ShouldRun(pending, time.Now().UTC()) {
		return Outcome{}, ErrNothingToProcess
	}

	balance, err := p.ledger.Balance(ctx, p.cfg.Account)
	if err != nil {
		return Outcome{}, fmt.Errorf("checking relayer balance: %w", err)
	}
	if balance < p.cfg.MinBalance {
		log.Warn().
			Str("func", "Processor.Process").
			Uint64("balance", balance).
			Uint64("min_balance", p.cfg.MinBalance).
			Msg("relayer underfunded, batch skipped")
		return Outcome{}, fmt.Errorf("%w: %d < %d lamports", ErrRelayerUnderfunded, balance, p.cfg.MinBalance)
	}

	batch := p.scheduler.SelectBatch(pending)

	log.Info().
		Str("func", "Processor.Process").
		Int("batch_size", len(batch)).
		Msg("batch started")

	var outcome Outcome
	for i, donation := range batch {
		if i > 0 {
			if err = p.pause(ctx); err != nil {
				// batch cut short; unprocessed items are still pending
				log.Warn().
					Str("func", "Processor.Process").
					Int("processed", i).
					Msg("batch interrupted")
				return outcome, err
			}
		}

		result := p.processOne(ctx, donation)
		outcome.Results = append(outcome.Results, result)
		if result.Success {
			outcome.Processed++
		} else {
			outcome.Failed++
		}
	}

	log.Info().
		Str("func", "Processor.Process").
		Int("processed", outcome.Processed).
		Int("failed", outcome.Failed).
		Msg("batch finished")

	return outcome, nil
}

// processOne relays a single donation and records its terminal state. All
// persistence failures after a ledger submission are logged but do not
// resubmit: the ledger, not the queue, is the source of truth for money
// movement.
func (p *Processor) processOne(ctx context.Context, donation models.QueuedDonation) models.DonationResult {
	log := logger.FromContext(ctx)

	if err := p.queue.Transition(ctx, donation.ID, models.StatusProcessing, store.TransitionFields{}); err != nil {
		log.Err(err).
			Str("func", "Processor.processOne").
			Str("id", donation.ID).
			Msg("failed to mark donation processing")
		return models.DonationResult{ID: donation.ID, Error: err.Error()}
	}

	split, err := fees.Compute(donation.Amount, p.cfg.FeeRate)
	if err != nil {
		p.recordFailure(ctx, donation.ID, store.TransitionFields{Error: err.Error(), FailedStep: 1})
		return models.DonationResult{ID: donation.ID, Error: err.Error()}
	}

	var feeSignature string
	if split.FeeAmount > 0 {
		feeSignature, err = p.submit(ctx, donation, p.cfg.FeeAccount, split.FeeAmount)
		if err != nil {
			p.recordFailure(ctx, donation.ID, store.TransitionFields{Error: err.Error(), FailedStep: 1})
			return models.DonationResult{ID: donation.ID, Error: err.Error()}
		}
	}

	txSignature, err := p.submit(ctx, donation, donation.CampaignVault, split.RecipientAmount)
	if err != nil {
		// fee leg already posted: operator reconciliation territory
		p.recordFailure(ctx, donation.ID, store.TransitionFields{
			FeeTxSignature: feeSignature,
			Error:          err.Error(),
			FailedStep:     2,
		})
		return models.DonationResult{ID: donation.ID, Error: err.Error()}
	}

	if err = p.queue.RecordResult(ctx, donation.ID, true, store.TransitionFields{
		TxSignature:    txSignature,
		FeeTxSignature: feeSignature,
	}); err != nil {
		log.Err(err).
			Str("func", "Processor.processOne").
			Str("id", donation.ID).
			Str("tx_signature", txSignature).
			Msg("donation relayed but result not recorded")
	}

	if err = p.campaigns.RecordCompletedDonation(ctx, donation.CampaignID, split.RecipientAmount); err != nil {
		log.Err(err).
			Str("func", "Processor.processOne").
			Str("campaign_id", donation.CampaignID).
			Msg("failed to update campaign totals")
	}

	return models.DonationResult{ID: donation.ID, Success: true, TxSignature: txSignature}
}

func (p *Processor) submit(ctx context.Context, donation models.QueuedDonation, recipient string, amount uint64) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()

	return p.ledger.SubmitRedemption(callCtx, ledger.RedemptionInstruction{
		Nullifier:      donation.Nullifier,
		SecretHash:     donation.SecretHash,
		Recipient:      recipient,
		Amount:         amount,
		DonorSignature: donation.DonorSignature,
	})
}

func (p *Processor) recordFailure(ctx context.Context, id string, fields store.TransitionFields) {
	if err := p.queue.RecordResult(ctx, id, false, fields); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Processor.recordFailure").
			Str("id", id).
			Msg("failed to record donation failure")
	}
}

// pause waits the randomized inter-item delay, honoring cancellation.
func (p *Processor) pause(ctx context.Context) error {
	delay := p.cfg.BaseDelay
	if p.cfg.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.cfg.Jitter)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
