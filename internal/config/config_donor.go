package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// DonorRelay holds network settings used by the donor CLI to reach the relay
// service.
type DonorRelay struct {
	// URL is the base HTTP address of the relay service
	// (e.g. "http://localhost:8080").
	// Env: DONOR_RELAY_URL
	URL string `env:"URL"`

	// RequestTimeout is the default timeout for outbound donor requests.
	// Env: DONOR_RELAY_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DonorStorage groups donor storage backend settings.
type DonorStorage struct {
	// NotesDB holds local note vault settings.
	// Env: DONOR_STORAGE_NOTES_DB_DSN
	NotesDB NotesDB `envPrefix:"NOTES_DB_"`
}

// DonorConfig is the top-level configuration for the donor CLI. It is loaded
// independently from the relay daemon config: the donor binary carries its own
// flag set and env prefix, so running both on one host never cross-wires them.
type DonorConfig struct {
	// OwnerID labels notes in the local vault. A donor keeping notes for
	// several identities can switch vault views by changing it.
	// Env: DONOR_OWNER_ID
	OwnerID string `env:"DONOR_OWNER_ID"`

	// Keypair is the donor's base58-encoded ed25519 private key used to
	// sign enqueue requests. Must be kept confidential.
	// Env: DONOR_KEYPAIR
	Keypair string `env:"DONOR_KEYPAIR"`

	// Relay contains the relay endpoint address and timeout.
	Relay DonorRelay `envPrefix:"DONOR_RELAY_"`

	// Storage contains note vault settings.
	Storage DonorStorage `envPrefix:"DONOR_STORAGE_"`
}

// GetDonorConfig builds and validates the donor CLI configuration.
//
// Environment variables (prefix DONOR_) are read first, then command-line
// flags override any non-empty values. The donor uses its own [flag.FlagSet]
// so the relay daemon's flags never leak into the donor binary. Parsing
// stops at the first non-flag argument; the remainder (the subcommand and
// its arguments) is returned alongside the config.
func GetDonorConfig(args []string) (*DonorConfig, []string, error) {
	cfg := &DonorConfig{
		Relay:   DonorRelay{RequestTimeout: 30 * time.Second},
		Storage: DonorStorage{NotesDB: NotesDB{DSN: "notes.db"}},
	}
	if err := parseEnv(cfg); err != nil {
		return nil, nil, fmt.Errorf("error get donor env configs: %w", err)
	}

	fs := flag.NewFlagSet("donor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.Relay.URL, "relay-url", cfg.Relay.URL, "base HTTP address of the relay service")
	fs.DurationVar(&cfg.Relay.RequestTimeout, "request-timeout", cfg.Relay.RequestTimeout, "timeout for outbound relay requests")
	fs.StringVar(&cfg.Storage.NotesDB.DSN, "notes-db", cfg.Storage.NotesDB.DSN, "SQLite file path of the local note vault")
	fs.StringVar(&cfg.OwnerID, "owner", cfg.OwnerID, "owner id labelling notes in the local vault")
	fs.StringVar(&cfg.Keypair, "keypair", cfg.Keypair, "base58-encoded ed25519 private key for signing enqueue requests")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing donor flags: %w", err)
	}

	return cfg, fs.Args(), cfg.validate()
}
