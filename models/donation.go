package models

import "time"

// DonationStatus is the lifecycle state of a queued donation. Transitions
// are monotone: pending -> processing -> {completed, failed}. A terminal
// record is never mutated back; reprocessing a failed donation means
// enqueueing a new request.
type DonationStatus string

const (
	StatusPending    DonationStatus = "pending"
	StatusProcessing DonationStatus = "processing"
	StatusCompleted  DonationStatus = "completed"
	StatusFailed     DonationStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a final state.
func (s DonationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// QueuedDonation is a request to redeem a deposited commitment into a
// campaign vault via the batch relay path. Records are never deleted; the
// queue doubles as an audit trail.
type QueuedDonation struct {
	ID string `json:"id"`

	// Commitment is hex-encoded and unique across the whole queue:
	// re-submitting the same commitment returns the existing record.
	Commitment string `json:"commitment"`

	// Nullifier and SecretHash are the hex-encoded reveal-safe hashes the
	// on-chain program needs to spend the commitment.
	Nullifier  string `json:"nullifier"`
	SecretHash string `json:"secretHash"`

	Amount        uint64 `json:"amount"`
	CampaignID    string `json:"campaignId"`
	CampaignVault string `json:"campaignVault"`

	// DonorSignature is a base58 ed25519 signature over
	// commitment || campaignId || campaignVault proving the note owner
	// authorized this destination. Verified on-chain.
	DonorSignature string `json:"donorSignature"`

	Status    DonationStatus `json:"status"`
	Timestamp time.Time      `json:"timestamp"`

	ProcessedAt *time.Time `json:"processedAt,omitempty"`

	// TxSignature is the ledger signature of the recipient-leg transaction
	// once the donation completes.
	TxSignature string `json:"txSignature,omitempty"`

	// FeeTxSignature is the ledger signature of the fee-leg transaction.
	FeeTxSignature string `json:"feeTxSignature,omitempty"`

	Error string `json:"error,omitempty"`

	// FailedStep is 2 when the fee transaction posted but the recipient
	// transfer failed; such records need operator reconciliation because
	// the fee is not recoverable automatically.
	FailedStep int `json:"failedStep,omitempty"`
}

// QueueStats is the aggregate view of the queue returned by status lookups.
type QueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// QueueState holds the rolling relay counters. It is persisted in its own
// single-row table and updated transactionally with every item result, so a
// crash mid-batch leaves the queue consistent and resumable.
type QueueState struct {
	LastProcessed  *time.Time `json:"lastProcessed,omitempty"`
	TotalProcessed int64      `json:"totalProcessed"`
	TotalFailed    int64      `json:"totalFailed"`
}

// DonationResult is the outcome of one relay attempt inside a batch.
type DonationResult struct {
	ID          string `json:"id"`
	Success     bool   `json:"success"`
	TxSignature string `json:"signature,omitempty"`
	Error       string `json:"error,omitempty"`
}
