package relayer

import "errors"

var (
	// ErrBatchInProgress means a processing run is already underway; only
	// one batch is ever in flight.
	ErrBatchInProgress = errors.New("batch already in progress")

	// ErrRelayerUnderfunded means the relayer account balance is below the
	// configured floor. The batch does not start and every selected item
	// stays pending.
	ErrRelayerUnderfunded = errors.New("relayer balance below minimum")

	// ErrNothingToProcess means the scheduler found no batch worth running.
	ErrNothingToProcess = errors.New("nothing to process")
)
