package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Txrmarcos/offuscate-relay/internal/adapter"
	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/crypto"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/atotto/clipboard"
)

// App is the donor CLI runtime. Dependencies are injected so every command
// can run against fakes in tests.
type App struct {
	cfg    *config.DonorConfig
	notes  store.NoteRepository
	relay  adapter.RelayAdapter
	cipher crypto.BackupCipher
	logger *logger.Logger

	out io.Writer

	// copyToClipboard is swapped out in tests; clipboard access is not
	// available on headless machines.
	copyToClipboard func(string) error
}

// NewApp wires the donor CLI from its configured dependencies. Output goes
// to stdout; backups are sealed with the default cipher.
func NewApp(cfg *config.DonorConfig, notes store.NoteRepository, relay adapter.RelayAdapter, log *logger.Logger) *App {
	return &App{
		cfg:             cfg,
		notes:           notes,
		relay:           relay,
		cipher:          crypto.NewBackupCipher(),
		logger:          log,
		out:             os.Stdout,
		copyToClipboard: clipboard.WriteAll,
	}
}

// Run dispatches args[0] as a subcommand and blocks until it finishes.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return ErrNoCommand
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "generate":
		return a.generate(ctx, rest)
	case "list":
		return a.list(ctx)
	case "donate":
		return a.donate(ctx, rest)
	case "status":
		return a.status(ctx, rest)
	case "backup":
		return a.backup(ctx, rest)
	case "restore":
		return a.restore(ctx, rest)
	default:
		a.usage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `usage: donor [global flags] <command> [command flags]

commands:
  generate  -amount <lamports>                       generate a deposit note
  list                                               list unspent notes
  donate    -campaign <id> -commitment <hex>         queue a donation
  status    [-id <id> | -commitment <hex>]           donation or queue status
  backup    -passphrase <p> [-file <path>] [-copy]   export encrypted note backup
  restore   -passphrase <p> -file <path>             import encrypted note backup`)
}
