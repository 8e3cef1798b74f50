package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Txrmarcos/offuscate-relay/models"
)

// donationColumns is the canonical column list scanned by scanDonation.
const donationColumns = `id, commitment, nullifier, secret_hash, amount, campaign_id, campaign_vault,
		donor_signature, status, enqueued_at, processed_at, tx_signature, fee_tx_signature,
		error_message, failed_step`

const (
	enqueueDonation = `INSERT INTO donations (
			id,
			commitment,
			nullifier,
			secret_hash,
			amount,
			campaign_id,
			campaign_vault,
			donor_signature,
			status,
			enqueued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	findDonationIDByCommitment = `SELECT id FROM donations WHERE commitment = $1;`

	countPending = `SELECT COUNT(*) FROM donations WHERE status = 'pending';`

	getDonationByID = `SELECT ` + donationColumns + `
		FROM donations
		WHERE id = $1;`

	getDonationByCommitment = `SELECT ` + donationColumns + `
		FROM donations
		WHERE commitment = $1;`

	// transitionDonation validates the monotone state machine inside the
	// database: the UPDATE only fires when the current status equals the
	// required predecessor, and the CTE pair lets the caller distinguish
	// "not found" (current_status NULL) from "invalid transition"
	// (current_status present, updated_id NULL).
	transitionDonation = `WITH target_record AS (
			SELECT status FROM donations WHERE id = $1
		), updated AS (
			UPDATE donations
			SET status = $2,
				processed_at = COALESCE($4, processed_at),
				tx_signature = CASE WHEN $5 <> '' THEN $5 ELSE tx_signature END,
				fee_tx_signature = CASE WHEN $6 <> '' THEN $6 ELSE fee_tx_signature END,
				error_message = CASE WHEN $7 <> '' THEN $7 ELSE error_message END,
				failed_step = CASE WHEN $8 > 0 THEN $8 ELSE failed_step END
			WHERE id = $1 AND status = $3
			RETURNING id
		)
		SELECT (SELECT status FROM target_record) AS current_status,
		       (SELECT id FROM updated) AS updated_id;`

	bumpQueueState = `UPDATE queue_state
		SET last_processed = $1,
			total_processed = total_processed + $2,
			total_failed = total_failed + $3
		WHERE id = 1;`

	getQueueState = `SELECT last_processed, total_processed, total_failed
		FROM queue_state
		WHERE id = 1;`

	donationStats = `SELECT status, COUNT(*) FROM donations GROUP BY status;`

	createCampaign = `INSERT INTO campaigns (campaign_id, vault, title, goal, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`

	getCampaign = `SELECT campaign_id, vault, title, goal, total_raised, donor_count, status, created_at
		FROM campaigns
		WHERE campaign_id = $1;`

	recordCampaignDonation = `UPDATE campaigns
		SET total_raised = total_raised + $2,
			donor_count = donor_count + 1
		WHERE campaign_id = $1;`
)

// SQLite queries for the donor-side note vault.
const (
	saveNote = `INSERT INTO notes (
			owner_id, commitment, secret, nullifier_secret, secret_hash, nullifier, amount, created_at, spent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	listUnspentNotes = `SELECT secret, nullifier_secret, secret_hash, nullifier, amount, created_at, spent
		FROM notes
		WHERE owner_id = ? AND spent = FALSE AND queued = FALSE
		ORDER BY created_at;`

	listQueuedNotes = `SELECT secret, nullifier_secret, secret_hash, nullifier, amount, created_at, spent
		FROM notes
		WHERE owner_id = ? AND spent = FALSE AND queued = TRUE
		ORDER BY created_at;`

	// idempotent by construction: re-marking touches zero rows
	markNoteQueued = `UPDATE notes SET queued = TRUE WHERE owner_id = ? AND commitment = ? AND spent = FALSE AND queued = FALSE;`

	markNoteSpent = `UPDATE notes SET spent = TRUE, queued = FALSE WHERE owner_id = ? AND commitment = ? AND spent = FALSE;`

	noteExists = `SELECT COUNT(*) FROM notes WHERE owner_id = ? AND commitment = ?;`
)

// buildListByStatusQuery assembles the donation listing query. Entries come
// back in enqueue order (seq), the FIFO baseline the scheduler shuffles.
func buildListByStatusQuery(status models.DonationStatus) (string, []any, error) {
	query, args, err := sq.
		Select("id", "commitment", "nullifier", "secret_hash", "amount", "campaign_id", "campaign_vault",
			"donor_signature", "status", "enqueued_at", "processed_at", "tx_signature", "fee_tx_signature",
			"error_message", "failed_step").
		From("donations").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("seq").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildRecentCompletedQuery assembles the recent-completions query used by
// the operator batch-status endpoint.
func buildRecentCompletedQuery(limit int) (string, []any, error) {
	query, args, err := sq.
		Select("id", "commitment", "nullifier", "secret_hash", "amount", "campaign_id", "campaign_vault",
			"donor_signature", "status", "enqueued_at", "processed_at", "tx_signature", "fee_tx_signature",
			"error_message", "failed_step").
		From("donations").
		Where(sq.Eq{"status": string(models.StatusCompleted)}).
		OrderBy("processed_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
