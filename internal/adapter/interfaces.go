// SPDX-License-Identifier: Apache-2.0

// Package adapter provides the donor-side transport layer for talking to the
// relay service.
//
// The primary abstraction is [RelayAdapter], which decouples the donor
// command layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRelayAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/Txrmarcos/offuscate-relay/models"
)

// RelayAdapter defines transport-agnostic communication with the relay
// service. Implementations are responsible for serialisation and for mapping
// transport-level errors to the sentinel values defined in this package.
type RelayAdapter interface {
	// EnqueueDonation submits a redemption request to the relay queue.
	// When the commitment is already queued the relay answers 409 with the
	// existing record attached: the response is still returned alongside a
	// wrapped [ErrConflict] so callers can recover the existing donation id.
	EnqueueDonation(ctx context.Context, req models.EnqueueDonationRequest) (models.EnqueueDonationResponse, error)

	// DonationStatus fetches the public view of a queued donation by its id.
	// Returns [ErrNotFound] (wrapped) if no such donation exists.
	DonationStatus(ctx context.Context, id string) (models.DonationStatusResponse, error)

	// DonationStatusByCommitment fetches the public view of a queued
	// donation by its hex commitment. Returns [ErrNotFound] (wrapped) if the
	// commitment has never been queued.
	DonationStatusByCommitment(ctx context.Context, commitment string) (models.DonationStatusResponse, error)

	// QueueStats fetches the aggregate queue counters.
	QueueStats(ctx context.Context) (models.QueueStatsResponse, error)

	// GetCampaign fetches the campaign record for campaignID, including its
	// vault address. Returns [ErrNotFound] (wrapped) for unknown campaigns.
	GetCampaign(ctx context.Context, campaignID string) (models.Campaign, error)
}
