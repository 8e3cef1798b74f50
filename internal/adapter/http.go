package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/utils"
	"github.com/Txrmarcos/offuscate-relay/models"
)

type httpRelayAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPRelayAdapter constructs an HTTP/REST implementation of
// [RelayAdapter]. It normalises and validates the base URL from relayCfg.URL
// and configures the underlying HTTP client with the resolved base URL and
// request timeout.
//
// Returns an error if relayCfg.URL is empty or cannot be parsed as a valid
// URL.
func NewHTTPRelayAdapter(relayCfg config.DonorRelay, logger *logger.Logger) (RelayAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(relayCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid relay url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(relayCfg.RequestTimeout)

	return &httpRelayAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// EnqueueDonation implements [RelayAdapter]. It POSTs req to
// POST /queue-donation. A 409 answer still carries the existing record, so
// the decoded response is returned together with the wrapped [ErrConflict]
// for the caller to inspect.
func (h *httpRelayAdapter) EnqueueDonation(ctx context.Context, req models.EnqueueDonationRequest) (models.EnqueueDonationResponse, error) {
	var result models.EnqueueDonationResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/queue-donation")
	if err != nil {
		return models.EnqueueDonationResponse{}, fmt.Errorf("enqueue donation request: %w", err)
	}

	if mapErr := mapHTTPError(resp); mapErr != nil {
		// best effort: a 409 body carries the existing record
		_ = json.Unmarshal(resp.Body(), &result)
		return result, mapErr
	}

	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.EnqueueDonationResponse{}, fmt.Errorf("decode enqueue response: %w", err)
	}

	return result, nil
}

// DonationStatus implements [RelayAdapter]. It GETs /queue-donation?id=<id>.
func (h *httpRelayAdapter) DonationStatus(ctx context.Context, id string) (models.DonationStatusResponse, error) {
	return h.donationLookup(ctx, "id", id)
}

// DonationStatusByCommitment implements [RelayAdapter]. It GETs
// /queue-donation?commitment=<hex>.
func (h *httpRelayAdapter) DonationStatusByCommitment(ctx context.Context, commitment string) (models.DonationStatusResponse, error) {
	return h.donationLookup(ctx, "commitment", commitment)
}

func (h *httpRelayAdapter) donationLookup(ctx context.Context, param, value string) (models.DonationStatusResponse, error) {
	var status models.DonationStatusResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam(param, value).
		SetResult(&status).
		Get("/queue-donation")
	if err != nil {
		return models.DonationStatusResponse{}, fmt.Errorf("donation status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DonationStatusResponse{}, err
	}

	return status, nil
}

// QueueStats implements [RelayAdapter]. It GETs /queue-donation with no query
// parameters and decodes the aggregate counters.
func (h *httpRelayAdapter) QueueStats(ctx context.Context) (models.QueueStatsResponse, error) {
	var stats models.QueueStatsResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/queue-donation")
	if err != nil {
		return models.QueueStatsResponse{}, fmt.Errorf("queue stats request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.QueueStatsResponse{}, err
	}

	return stats, nil
}

// GetCampaign implements [RelayAdapter]. It GETs /campaigns/{campaignID}.
func (h *httpRelayAdapter) GetCampaign(ctx context.Context, campaignID string) (models.Campaign, error) {
	var campaign models.Campaign

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&campaign).
		Get("/campaigns/" + url.PathEscape(campaignID))
	if err != nil {
		return models.Campaign{}, fmt.Errorf("get campaign request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Campaign{}, err
	}

	return campaign, nil
}
