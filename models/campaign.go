package models

import "time"

// CampaignStatus is the lifecycle status of a fundraising campaign.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignClosed    CampaignStatus = "closed"
	CampaignCompleted CampaignStatus = "completed"
)

// Campaign describes a fundraising campaign and its on-chain vault. The
// relay validates every queued donation against this registry so that funds
// can only be redeemed into a known vault.
type Campaign struct {
	CampaignID string `json:"campaignId"`

	// Vault is the base58-encoded on-chain account that receives redeemed
	// donations for this campaign.
	Vault string `json:"vault"`

	Title string `json:"title"`
	Goal  uint64 `json:"goal"`

	// TotalRaised counts only relayed (completed) donations; direct
	// on-chain donations are tracked by the program itself.
	TotalRaised uint64 `json:"totalRaised"`
	DonorCount  uint64 `json:"donorCount"`

	Status    CampaignStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}
