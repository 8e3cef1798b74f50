package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrCampaignInactive means the campaign exists but no longer accepts
	// donations.
	ErrCampaignInactive = errors.New("campaign is not active")

	// ErrVaultMismatch means the submitted vault address does not match the
	// registered vault of the campaign.
	ErrVaultMismatch = errors.New("vault does not match campaign registry")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
