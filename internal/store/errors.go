package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDuplicateCommitment is returned when an enqueue attempt targets a
	// commitment that already exists in the queue. Enqueue is idempotent:
	// the caller should look up the existing record and return its id
	// instead of creating a duplicate.
	ErrDuplicateCommitment = errors.New("commitment already queued")

	// ErrDonationNotFound is returned when a lookup by id or commitment
	// matches no queued donation.
	ErrDonationNotFound = errors.New("queued donation was not found")

	// ErrInvalidTransition is returned when a status change violates the
	// monotone state machine pending -> processing -> {completed, failed}.
	// This indicates a programming error in the scheduler/processor pair,
	// never a recoverable request condition.
	ErrInvalidTransition = errors.New("invalid donation status transition")

	// ErrCampaignNotFound is returned when a queued donation references a
	// campaign id that is not registered.
	ErrCampaignNotFound = errors.New("campaign was not found")

	// ErrCampaignExists is returned when campaign registration collides
	// with an already registered campaign id.
	ErrCampaignExists = errors.New("campaign already exists")

	// ErrNoteNotFound is returned when a spent-marking targets a commitment
	// that is not present in the owner's local vault.
	ErrNoteNotFound = errors.New("note was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan donation row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan donation rows")
)
