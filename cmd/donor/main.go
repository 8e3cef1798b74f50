package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Txrmarcos/offuscate-relay/internal/adapter"
	"github.com/Txrmarcos/offuscate-relay/internal/client"
	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewFileLogger("offuscate-donor")

	cfg, args, err := config.GetDonorConfig(os.Args[1:])
	if err != nil {
		log.Err(err).Msg("error getting donor configs")
		fmt.Fprintf(os.Stderr, "donor: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 1 && args[0] == "version" {
		printBuildInfo()
		return
	}

	ctx := context.Background()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.NotesDB, log)
	if err != nil {
		log.Err(err).Msg("error opening note vault")
		fmt.Fprintf(os.Stderr, "donor: open note vault: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	notes := store.NewNoteRepository(db, log)

	relay, err := adapter.NewHTTPRelayAdapter(cfg.Relay, log)
	if err != nil {
		log.Err(err).Msg("error creating relay adapter")
		fmt.Fprintf(os.Stderr, "donor: %v\n", err)
		os.Exit(1)
	}

	app := client.NewApp(cfg, notes, relay, log)
	if err = app.Run(logger.NewContext(ctx, log), args); err != nil {
		log.Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "donor: %v\n", err)
		os.Exit(1)
	}
}

func printBuildInfo() {
	fmt.Println(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
}
