package store

import (
	"context"
	"time"

	"github.com/Txrmarcos/offuscate-relay/models"
)

// TransitionFields carries the optional outcome fields written together
// with a status transition.
type TransitionFields struct {
	ProcessedAt    *time.Time
	TxSignature    string
	FeeTxSignature string
	Error          string
	FailedStep     int
}

// DonationQueueRepository is the durable donation queue. Records are only
// ever appended and moved forward through the monotone status machine;
// nothing is deleted, so the queue doubles as an audit trail.
type DonationQueueRepository interface {
	// Enqueue inserts a new pending donation and returns its 1-based queue
	// position. Returns [ErrDuplicateCommitment] when the commitment is
	// already queued (checked before insert and enforced again by a unique
	// index for concurrent submitters).
	Enqueue(ctx context.Context, donation *models.QueuedDonation) (int, error)

	GetByID(ctx context.Context, id string) (models.QueuedDonation, error)
	GetByCommitment(ctx context.Context, commitment string) (models.QueuedDonation, error)

	// ListByStatus returns all matching entries in original enqueue order,
	// the FIFO fairness baseline before the scheduler's privacy shuffle.
	ListByStatus(ctx context.Context, status models.DonationStatus) ([]models.QueuedDonation, error)

	// ListRecentCompleted returns at most limit completed donations, most
	// recently processed first.
	ListRecentCompleted(ctx context.Context, limit int) ([]models.QueuedDonation, error)

	// Transition moves a donation to newStatus after validating the
	// monotone state machine in SQL. Returns [ErrDonationNotFound] for an
	// unknown id and [ErrInvalidTransition] when the current status does
	// not permit the change.
	Transition(ctx context.Context, id string, newStatus models.DonationStatus, fields TransitionFields) error

	// RecordResult finalizes one relay attempt: it transitions the donation
	// from processing to its terminal status and bumps the rolling queue
	// counters in the same transaction, so a crash mid-batch never leaves
	// the counters out of step with the records.
	RecordResult(ctx context.Context, id string, success bool, fields TransitionFields) error

	Stats(ctx context.Context) (models.QueueStats, error)
	QueueState(ctx context.Context) (models.QueueState, error)
}

// CampaignRepository is the registry of campaigns and their vaults used to
// validate enqueue requests.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign models.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (models.Campaign, error)

	// RecordCompletedDonation bumps the campaign's relayed totals after a
	// donation completes.
	RecordCompletedDonation(ctx context.Context, campaignID string, amount uint64) error
}

// NoteRepository is the donor-side local vault of deposit notes, keyed by
// owner identity. Append-only apart from the queued and spent flag flips.
type NoteRepository interface {
	SaveNote(ctx context.Context, ownerID string, note models.PrivateNote) error

	// ListUnspentNotes returns the owner's spendable notes: neither queued
	// at the relay nor spent.
	ListUnspentNotes(ctx context.Context, ownerID string) ([]models.PrivateNote, error)

	// ListQueuedNotes returns notes accepted by the relay but not yet
	// confirmed redeemed.
	ListQueuedNotes(ctx context.Context, ownerID string) ([]models.PrivateNote, error)

	// MarkNoteQueued records that the relay accepted the note. Idempotent.
	MarkNoteQueued(ctx context.Context, ownerID string, commitment string) error

	// MarkNoteSpent records a confirmed redemption: the nullifier is
	// consumed on-chain and the note can never be spent again. Idempotent.
	MarkNoteSpent(ctx context.Context, ownerID string, commitment string) error
}
