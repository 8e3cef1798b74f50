package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] and
// [DonorConfig.validate] when required configuration groups are incomplete
// or invalid.
var (
	// ErrInvalidRelayerConfigs indicates invalid ledger submission settings
	// (for example, a fee rate outside [0, 1)).
	ErrInvalidRelayerConfigs = errors.New("invalid relayer configuration")
	// ErrInvalidSchedulerConfigs indicates invalid batch trigger settings
	// (for example, a negative minimum batch size).
	ErrInvalidSchedulerConfigs = errors.New("invalid scheduler configuration")
	// ErrInvalidStorageConfigs indicates invalid donor storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidRelayConfigs indicates invalid donor-side relay client
	// settings (for example, missing relay URL or request timeout).
	ErrInvalidRelayConfigs = errors.New("invalid relay configuration")
)
