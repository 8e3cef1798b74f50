package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-issue-token print an operator token for the given id and exit
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-rpc-url ledger JSON-RPC endpoint
//	-relayer-keypair base58 relayer private key
//	-fee-account base58 fee account address
//	-fee-rate relayer fee rate (e.g., 0.02)
//	-min-balance relayer balance floor in lamports
//	-min-batch-size scheduler batch size trigger
//	-max-queue-age scheduler age trigger (e.g., "5m")
//	-tick-interval worker poll interval (e.g., "30s")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var issueTokenFor string
	var requestTimeout time.Duration
	var rpcURL string
	var relayerKeypair string
	var feeAccount string
	var feeRate float64
	var minBalance uint64
	var minBatchSize int
	var maxQueueAge time.Duration
	var tickInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.StringVar(&issueTokenFor, "issue-token", "", "Print an operator token for the given id and exit")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&rpcURL, "rpc-url", "", "Ledger JSON-RPC endpoint")
	flag.StringVar(&relayerKeypair, "relayer-keypair", "", "Base58 relayer private key")
	flag.StringVar(&feeAccount, "fee-account", "", "Base58 fee account address")
	flag.Float64Var(&feeRate, "fee-rate", 0, "Relayer fee rate (e.g., 0.02)")
	flag.Uint64Var(&minBalance, "min-balance", 0, "Relayer balance floor in lamports")
	flag.IntVar(&minBatchSize, "min-batch-size", 0, "Scheduler batch size trigger")
	flag.DurationVar(&maxQueueAge, "max-queue-age", 0, "Scheduler age trigger (e.g., 5m)")
	flag.DurationVar(&tickInterval, "tick-interval", 0, "Worker poll interval (e.g., 30s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			IssueTokenFor: issueTokenFor,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Relayer: Relayer{
			RPCURL:     rpcURL,
			Keypair:    relayerKeypair,
			FeeAccount: feeAccount,
			FeeRate:    feeRate,
			MinBalance: minBalance,
		},
		Scheduler: Scheduler{
			MinBatchSize: minBatchSize,
			MaxQueueAge:  maxQueueAge,
		},
		Workers: Workers{
			TickInterval: tickInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
