// SPDX-License-Identifier: Apache-2.0

// Package client implements the donor command-line application.
//
// It wires the local note vault, the relay HTTP adapter, and the backup
// cipher into named subcommands (generate, list, donate, status, backup,
// restore) and owns their flag parsing and output formatting.
package client
