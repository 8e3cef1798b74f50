package models

import "time"

// EnqueueDonationRequest is the body of POST /queue-donation. All fields are
// required; the handler rejects missing or malformed fields with 400 before
// the request reaches the service layer.
type EnqueueDonationRequest struct {
	// Commitment, Nullifier and SecretHash are fixed-width hex strings
	// (64 hex chars each) computed by the donor's note codec.
	Commitment string `json:"commitment"`
	Nullifier  string `json:"nullifier"`
	SecretHash string `json:"secretHash"`

	// Amount in lamports. Must be one of the standardized denominations.
	Amount uint64 `json:"amount"`

	CampaignID    string `json:"campaignId"`
	CampaignVault string `json:"campaignVault"`

	// DonorSignature is a base58 ed25519 signature over
	// commitment || campaignId || campaignVault.
	DonorSignature string `json:"donorSignature"`
}

// EnqueueDonationResponse is returned on a successful enqueue, and with
// Success=false plus the existing DonationID when the commitment is already
// queued.
type EnqueueDonationResponse struct {
	Success       bool   `json:"success"`
	DonationID    string `json:"donationId"`
	QueuePosition int    `json:"queuePosition,omitempty"`

	// EstimatedProcessingTime is a rough upper bound in seconds before the
	// donation is picked up by a batch. Deliberately coarse: precise
	// per-donation timing would itself be a correlation signal.
	EstimatedProcessingTime int64 `json:"estimatedProcessingTime,omitempty"`

	Error string `json:"error,omitempty"`
}

// DonationStatusResponse is the public view of a single queued donation.
// The donor's secrets are never part of this response.
type DonationStatusResponse struct {
	ID          string         `json:"id"`
	Commitment  string         `json:"commitment"`
	Amount      uint64         `json:"amount"`
	CampaignID  string         `json:"campaignId"`
	Status      DonationStatus `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	ProcessedAt *time.Time     `json:"processedAt,omitempty"`
	TxSignature string         `json:"txSignature,omitempty"`
	FailedStep  int            `json:"failedStep,omitempty"`
}

// QueueStatsResponse is returned by GET /queue-donation when neither id nor
// commitment is supplied.
type QueueStatsResponse struct {
	QueueStats
	LastProcessed *time.Time `json:"lastProcessed,omitempty"`
}

// ProcessBatchResponse is the body of POST /process-batch.
type ProcessBatchResponse struct {
	Success   bool             `json:"success"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Results   []DonationResult `json:"results,omitempty"`

	// Pending and QueueAgeSeconds are populated when the batch trigger
	// threshold is not met and no batch was run.
	Pending         int   `json:"pending,omitempty"`
	QueueAgeSeconds int64 `json:"queueAgeSeconds,omitempty"`

	Error string `json:"error,omitempty"`
}

// BatchStatusResponse is the scheduler state returned by GET /process-batch.
type BatchStatusResponse struct {
	Pending         int        `json:"pending"`
	Processing      int        `json:"processing"`
	MinBatchSize    int        `json:"minBatchSize"`
	QueueAgeSeconds int64      `json:"queueAgeSeconds"`
	ShouldProcess   bool       `json:"shouldProcess"`
	LastProcessed   *time.Time `json:"lastProcessed,omitempty"`
	TotalProcessed  int64      `json:"totalProcessed"`
	TotalFailed     int64      `json:"totalFailed"`

	// RecentCompleted lists at most the last 10 completed donations. Only
	// exposed to authenticated operators because it discloses amounts.
	RecentCompleted []DonationStatusResponse `json:"recentCompleted,omitempty"`
}
