package service

import (
	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/relayer"
	"github.com/Txrmarcos/offuscate-relay/internal/scheduler"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/validators"
)

type Services struct {
	QueueService    QueueService
	BatchService    BatchService
	CampaignService CampaignService
	AuthService     AuthService
	AppInfoService  AppInfoService
}

func NewServices(repos *store.Repositories, processor *relayer.Processor, sched *scheduler.Scheduler, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		QueueService: NewQueueService(
			repos.DonationQueueRepository,
			repos.CampaignRepository,
			validators.NewDonationValidator(),
			sched,
			logger,
		),
		BatchService:    NewBatchService(processor, repos.DonationQueueRepository, sched, logger),
		CampaignService: NewCampaignService(repos.CampaignRepository, logger),
		AuthService:     NewAuthService(cfg.App, logger),
		AppInfoService:  appInfoService,
	}, nil
}
