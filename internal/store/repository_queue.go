package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// donationQueueRepository is the PostgreSQL-backed implementation of
// [DonationQueueRepository]. All queue mutations go through single
// statements or short transactions with row-level locking, which is what
// closes the read-whole-file/write-whole-file race the original queue
// design suffered from under concurrent enqueues.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (donation id, commitment, status).
type donationQueueRepository struct {
	*DB
	logger *logger.Logger
}

// NewDonationQueueRepository constructs a [DonationQueueRepository] backed
// by the provided database connection and logger.
func NewDonationQueueRepository(db *DB, logger *logger.Logger) DonationQueueRepository {
	return &donationQueueRepository{
		DB:     db,
		logger: logger,
	}
}

// Enqueue appends a new pending donation and returns its 1-based queue
// position among pending entries.
//
// The commitment uniqueness check runs before the insert so the common
// duplicate case never burns a queue id; the unique index on commitment
// catches the race where two submitters pass the check concurrently, in
// which case the losing insert also reports [ErrDuplicateCommitment].
func (r *donationQueueRepository) Enqueue(ctx context.Context, donation *models.QueuedDonation) (int, error) {
	log := logger.FromContext(ctx)

	var existingID string
	err := r.DB.QueryRowContext(ctx, findDonationIDByCommitment, donation.Commitment).Scan(&existingID)
	switch {
	case err == nil:
		log.Warn().
			Str("func", "donationQueueRepository.Enqueue").
			Str("commitment", donation.Commitment).
			Str("existing_id", existingID).
			Msg("commitment already queued")
		return 0, fmt.Errorf("%w: existing id %s", ErrDuplicateCommitment, existingID)
	case !errors.Is(err, sql.ErrNoRows):
		log.Err(err).
			Str("func", "donationQueueRepository.Enqueue").
			Str("commitment", donation.Commitment).
			Msg("failed to check commitment uniqueness")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	_, err = r.DB.ExecContext(ctx, enqueueDonation,
		donation.ID,
		donation.Commitment,
		donation.Nullifier,
		donation.SecretHash,
		int64(donation.Amount),
		donation.CampaignID,
		donation.CampaignVault,
		donation.DonorSignature,
		string(donation.Status),
		donation.Timestamp,
	)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Warn().
				Str("func", "donationQueueRepository.Enqueue").
				Str("commitment", donation.Commitment).
				Msg("lost enqueue race on commitment")
			return 0, ErrDuplicateCommitment
		}
		log.Err(err).
			Str("func", "donationQueueRepository.Enqueue").
			Str("id", donation.ID).
			Msg("failed to insert donation")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var position int
	if err = r.DB.QueryRowContext(ctx, countPending).Scan(&position); err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.Enqueue").
			Str("id", donation.ID).
			Msg("failed to count pending donations")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Info().
		Str("func", "donationQueueRepository.Enqueue").
		Str("id", donation.ID).
		Int("queue_position", position).
		Msg("donation enqueued")

	return position, nil
}

// GetByID retrieves a donation by its queue id.
// Returns [ErrDonationNotFound] when no record matches.
func (r *donationQueueRepository) GetByID(ctx context.Context, id string) (models.QueuedDonation, error) {
	return r.getOne(ctx, getDonationByID, id)
}

// GetByCommitment retrieves a donation by its commitment.
// Returns [ErrDonationNotFound] when no record matches.
func (r *donationQueueRepository) GetByCommitment(ctx context.Context, commitment string) (models.QueuedDonation, error) {
	return r.getOne(ctx, getDonationByCommitment, commitment)
}

func (r *donationQueueRepository) getOne(ctx context.Context, query string, arg string) (models.QueuedDonation, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, query, arg)

	donation, err := scanDonation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QueuedDonation{}, ErrDonationNotFound
		}
		log.Err(err).
			Str("func", "donationQueueRepository.getOne").
			Str("arg", arg).
			Msg("failed to scan donation row")
		return models.QueuedDonation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return donation, nil
}

// ListByStatus returns all donations with the given status in enqueue
// order. Returns an empty slice when nothing matches.
func (r *donationQueueRepository) ListByStatus(ctx context.Context, status models.DonationStatus) ([]models.QueuedDonation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListByStatusQuery(status)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.ListByStatus").
			Str("status", string(status)).
			Msg("failed to build query")
		return nil, err
	}

	return r.listDonations(ctx, query, args)
}

// ListRecentCompleted returns at most limit completed donations ordered by
// most recent processing time.
func (r *donationQueueRepository) ListRecentCompleted(ctx context.Context, limit int) ([]models.QueuedDonation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRecentCompletedQuery(limit)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.ListRecentCompleted").
			Int("limit", limit).
			Msg("failed to build query")
		return nil, err
	}

	return r.listDonations(ctx, query, args)
}

func (r *donationQueueRepository) listDonations(ctx context.Context, query string, args []any) ([]models.QueuedDonation, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.listDonations").
			Msg("failed to execute donation listing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	donations := make([]models.QueuedDonation, 0, 50)

	for rows.Next() {
		donation, scanErr := scanDonation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "donationQueueRepository.listDonations").
				Msg("failed to scan donation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		donations = append(donations, donation)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "donationQueueRepository.listDonations").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return donations, nil
}

// Transition moves one donation to newStatus. The monotone state machine is
// validated inside the database via [transitionDonation]: the update only
// fires when the current status is the required predecessor of newStatus.
//
// Outcome decoding:
//   - current_status NULL → record not found ([ErrDonationNotFound]);
//   - updated_id NULL with current_status present → the record exists but
//     its status does not permit the change ([ErrInvalidTransition]).
func (r *donationQueueRepository) Transition(ctx context.Context, id string, newStatus models.DonationStatus, fields TransitionFields) error {
	return r.transitionTx(ctx, r.DB.DB, id, newStatus, fields)
}

// queryRower is the subset of sql.DB/sql.Tx needed by transitionTx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *donationQueueRepository) transitionTx(ctx context.Context, q queryRower, id string, newStatus models.DonationStatus, fields TransitionFields) error {
	log := logger.FromContext(ctx)

	requiredFrom, ok := transitionPredecessor(newStatus)
	if !ok {
		log.Error().
			Str("func", "donationQueueRepository.transitionTx").
			Str("id", id).
			Str("new_status", string(newStatus)).
			Msg("attempted transition into an unreachable status")
		return ErrInvalidTransition
	}

	var currentStatus *string
	var updatedID *string

	err := q.QueryRowContext(ctx, transitionDonation,
		id,
		string(newStatus),
		string(requiredFrom),
		fields.ProcessedAt,
		fields.TxSignature,
		fields.FeeTxSignature,
		fields.Error,
		fields.FailedStep,
	).Scan(&currentStatus, &updatedID)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.transitionTx").
			Str("id", id).
			Str("new_status", string(newStatus)).
			Msg("failed to execute transition query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	// not found: target_record empty -> both NULL
	if currentStatus == nil {
		log.Warn().
			Str("func", "donationQueueRepository.transitionTx").
			Str("id", id).
			Msg("donation not found")
		return ErrDonationNotFound
	}

	// found but not updated -> state machine violation
	if updatedID == nil {
		log.Error().
			Str("func", "donationQueueRepository.transitionTx").
			Str("id", id).
			Str("current_status", *currentStatus).
			Str("new_status", string(newStatus)).
			Msg("monotone status machine violated")
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, *currentStatus, newStatus)
	}

	log.Debug().
		Str("func", "donationQueueRepository.transitionTx").
		Str("id", id).
		Str("new_status", string(newStatus)).
		Msg("donation status transitioned")

	return nil
}

// transitionPredecessor returns the only status a donation may hold for a
// transition into newStatus to be legal.
func transitionPredecessor(newStatus models.DonationStatus) (models.DonationStatus, bool) {
	switch newStatus {
	case models.StatusProcessing:
		return models.StatusPending, true
	case models.StatusCompleted, models.StatusFailed:
		return models.StatusProcessing, true
	}
	return "", false
}

// RecordResult finalizes one relay attempt inside a single transaction:
// the processing donation moves to its terminal status and the rolling
// queue counters are bumped together with it. Persisting per item (not at
// batch end) is what makes a crash mid-batch resumable: terminal items are
// final, untouched items are still pending for the next tick.
func (r *donationQueueRepository) RecordResult(ctx context.Context, id string, success bool, fields TransitionFields) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.RecordResult").
			Str("id", id).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	newStatus := models.StatusFailed
	processedDelta, failedDelta := 0, 1
	if success {
		newStatus = models.StatusCompleted
		processedDelta, failedDelta = 1, 0
	}

	if fields.ProcessedAt == nil {
		now := time.Now().UTC()
		fields.ProcessedAt = &now
	}

	if err = r.transitionTx(ctx, tx, id, newStatus, fields); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, bumpQueueState, fields.ProcessedAt, processedDelta, failedDelta); err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.RecordResult").
			Str("id", id).
			Msg("failed to bump queue counters")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "donationQueueRepository.RecordResult").
			Str("id", id).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "donationQueueRepository.RecordResult").
		Str("id", id).
		Bool("success", success).
		Msg("relay result recorded")

	return nil
}

// Stats aggregates donation counts per status.
func (r *donationQueueRepository) Stats(ctx context.Context) (models.QueueStats, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, donationStats)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.Stats").
			Msg("failed to execute stats query")
		return models.QueueStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var stats models.QueueStats

	for rows.Next() {
		var status string
		var count int

		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			log.Err(scanErr).
				Str("func", "donationQueueRepository.Stats").
				Msg("failed to scan stats row")
			return models.QueueStats{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		switch models.DonationStatus(status) {
		case models.StatusPending:
			stats.Pending = count
		case models.StatusProcessing:
			stats.Processing = count
		case models.StatusCompleted:
			stats.Completed = count
		case models.StatusFailed:
			stats.Failed = count
		}
		stats.Total += count
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "donationQueueRepository.Stats").
			Msg("error occurred during rows iteration")
		return models.QueueStats{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return stats, nil
}

// QueueState returns the rolling relay counters.
func (r *donationQueueRepository) QueueState(ctx context.Context) (models.QueueState, error) {
	log := logger.FromContext(ctx)

	var state models.QueueState
	err := r.DB.QueryRowContext(ctx, getQueueState).Scan(&state.LastProcessed, &state.TotalProcessed, &state.TotalFailed)
	if err != nil {
		log.Err(err).
			Str("func", "donationQueueRepository.QueueState").
			Msg("failed to read queue state")
		return models.QueueState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return state, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanDonation.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (models.QueuedDonation, error) {
	var d models.QueuedDonation
	var amount int64
	var status string

	err := row.Scan(
		&d.ID,
		&d.Commitment,
		&d.Nullifier,
		&d.SecretHash,
		&amount,
		&d.CampaignID,
		&d.CampaignVault,
		&d.DonorSignature,
		&status,
		&d.Timestamp,
		&d.ProcessedAt,
		&d.TxSignature,
		&d.FeeTxSignature,
		&d.Error,
		&d.FailedStep,
	)
	if err != nil {
		return models.QueuedDonation{}, err
	}

	d.Amount = uint64(amount)
	d.Status = models.DonationStatus(status)

	return d, nil
}
