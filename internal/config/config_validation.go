// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Only cross-field invariants are checked here; missing optional values fall
// back to component defaults (see relayer.NewProcessor and
// relayer.NewScheduler).
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Relayer.FeeRate < 0 || cfg.Relayer.FeeRate >= 1 {
		return ErrInvalidRelayerConfigs
	}

	if cfg.Scheduler.MinBatchSize < 0 || cfg.Scheduler.MaxQueueAge < 0 {
		return ErrInvalidSchedulerConfigs
	}

	return nil
}

func (cfg *DonorConfig) validate() error {
	if cfg.Storage.NotesDB.DSN == "" || strings.Contains(cfg.Storage.NotesDB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Relay.URL == "" || cfg.Relay.RequestTimeout == 0 {
		return ErrInvalidRelayConfigs
	}

	return nil
}
