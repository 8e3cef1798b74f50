package store

import "github.com/Txrmarcos/offuscate-relay/internal/logger"

// Repositories bundles the server-side persistence layer.
type Repositories struct {
	DonationQueueRepository DonationQueueRepository
	CampaignRepository      CampaignRepository
}

// NewRepositories constructs all server-side repositories over one database
// connection.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		DonationQueueRepository: NewDonationQueueRepository(db, log),
		CampaignRepository:      NewCampaignRepository(db, log),
	}
}
