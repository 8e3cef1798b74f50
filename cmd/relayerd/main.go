package main

import (
	"context"
	"fmt"

	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/handler"
	"github.com/Txrmarcos/offuscate-relay/internal/ledger"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/relayer"
	"github.com/Txrmarcos/offuscate-relay/internal/scheduler"
	"github.com/Txrmarcos/offuscate-relay/internal/server"
	"github.com/Txrmarcos/offuscate-relay/internal/service"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/workers"
	"github.com/Txrmarcos/offuscate-relay/migrations"
	"github.com/Txrmarcos/offuscate-relay/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("offuscate-relayerd")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	repos := store.NewRepositories(db, log)

	keypair, err := ledger.KeypairFromBase58(cfg.Relayer.Keypair)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading relayer keypair")
	}

	client := ledger.NewRPCClient(ledger.ClientConfig{
		RPCURL:  cfg.Relayer.RPCURL,
		Timeout: cfg.Relayer.CallTimeout,
	}, keypair, log)

	sched := scheduler.New(cfg.Scheduler.MinBatchSize, cfg.Scheduler.MaxQueueAge)

	processor := relayer.NewProcessor(
		repos.DonationQueueRepository,
		repos.CampaignRepository,
		client,
		sched,
		relayer.Config{
			Account:     keypair.PublicKey(),
			FeeAccount:  cfg.Relayer.FeeAccount,
			FeeRate:     cfg.Relayer.FeeRate,
			MinBalance:  cfg.Relayer.MinBalance,
			CallTimeout: cfg.Relayer.CallTimeout,
			BaseDelay:   cfg.Relayer.BaseDelay,
			Jitter:      cfg.Relayer.Jitter,
		},
		log,
	)

	services, err := service.NewServices(repos, processor, sched, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if cfg.App.IssueTokenFor != "" {
		issueOperatorToken(ctx, services, cfg.App.IssueTokenFor, log)
		return
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	batchWorker := relayer.NewWorker(workerCtx, processor, cfg.Workers.TickInterval, log)
	workers.NewWorkers(batchWorker).Run()

	srv.RunServer()
}

// issueOperatorToken prints a signed operator token to stdout. There is no
// HTTP endpoint for token issuance: operators mint tokens on a host that
// already holds the signing key.
func issueOperatorToken(ctx context.Context, services *service.Services, operatorID string, log *logger.Logger) {
	token, err := services.AuthService.CreateToken(ctx, operatorID)
	if err != nil {
		log.Fatal().Err(err).Str("operator_id", operatorID).Msg("error issuing operator token")
	}

	fmt.Println(token.SignedString)
}

func printBuildInfo() {
	fmt.Println(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
}
