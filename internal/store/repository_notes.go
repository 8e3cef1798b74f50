package store

import (
	"context"
	"fmt"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/note"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// noteRepository is the SQLite-backed donor note vault. Notes are stored in
// their fixed-width hex form so a vault file can be inspected and backed up
// with plain sqlite tooling.
type noteRepository struct {
	*LocalDB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by the local
// SQLite vault.
func NewNoteRepository(db *LocalDB, logger *logger.Logger) NoteRepository {
	return &noteRepository{
		LocalDB: db,
		logger:  logger,
	}
}

// SaveNote persists a freshly generated note for ownerID. The (owner,
// commitment) primary key makes double-saving the same note an error rather
// than a silent duplicate.
func (r *noteRepository) SaveNote(ctx context.Context, ownerID string, n models.PrivateNote) error {
	log := logger.FromContext(ctx)

	stored := note.Serialize(n)

	_, err := r.LocalDB.ExecContext(ctx, saveNote,
		ownerID,
		stored.Commitment,
		stored.Secret,
		stored.NullifierSecret,
		stored.SecretHash,
		stored.Nullifier,
		int64(stored.Amount),
		stored.CreatedAt,
		stored.Spent,
	)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveNote").
			Str("commitment", stored.Commitment).
			Msg("failed to save note")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Info().
		Str("func", "noteRepository.SaveNote").
		Str("commitment", stored.Commitment).
		Uint64("amount", stored.Amount).
		Msg("note saved to local vault")

	return nil
}

// ListUnspentNotes returns the owner's spendable notes in creation order.
// Notes already queued at the relay are excluded.
func (r *noteRepository) ListUnspentNotes(ctx context.Context, ownerID string) ([]models.PrivateNote, error) {
	return r.listNotes(ctx, listUnspentNotes, ownerID, "noteRepository.ListUnspentNotes")
}

// ListQueuedNotes returns notes the relay has accepted but whose redemption
// has not been confirmed yet, in creation order.
func (r *noteRepository) ListQueuedNotes(ctx context.Context, ownerID string) ([]models.PrivateNote, error) {
	return r.listNotes(ctx, listQueuedNotes, ownerID, "noteRepository.ListQueuedNotes")
}

func (r *noteRepository) listNotes(ctx context.Context, query string, ownerID string, funcName string) ([]models.PrivateNote, error) {
	log := logger.FromContext(ctx)

	rows, err := r.LocalDB.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to query notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.PrivateNote, 0, 10)

	for rows.Next() {
		var stored models.StoredNote
		var amount int64

		scanErr := rows.Scan(
			&stored.Secret,
			&stored.NullifierSecret,
			&stored.SecretHash,
			&stored.Nullifier,
			&amount,
			&stored.CreatedAt,
			&stored.Spent,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan note row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		stored.Amount = uint64(amount)

		n, decodeErr := note.Deserialize(stored)
		if decodeErr != nil {
			log.Err(decodeErr).
				Str("func", funcName).
				Msg("vault row failed to decode")
			return nil, decodeErr
		}

		notes = append(notes, n)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

// MarkNoteQueued flags the commitment as accepted by the relay. The note
// leaves the spendable set but stays unspent until a confirmed redemption.
func (r *noteRepository) MarkNoteQueued(ctx context.Context, ownerID string, commitment string) error {
	return r.flipNoteFlag(ctx, markNoteQueued, ownerID, commitment, "noteRepository.MarkNoteQueued", "note marked queued")
}

// MarkNoteSpent records a confirmed redemption for the commitment. Marking
// an already-spent note again is a no-op; an unknown commitment reports
// [ErrNoteNotFound].
func (r *noteRepository) MarkNoteSpent(ctx context.Context, ownerID string, commitment string) error {
	return r.flipNoteFlag(ctx, markNoteSpent, ownerID, commitment, "noteRepository.MarkNoteSpent", "note marked spent")
}

func (r *noteRepository) flipNoteFlag(ctx context.Context, query string, ownerID string, commitment string, funcName string, okMsg string) error {
	log := logger.FromContext(ctx)

	result, err := r.LocalDB.ExecContext(ctx, query, ownerID, commitment)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("commitment", commitment).
			Msg("failed to update note flag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("commitment", commitment).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected == 0 {
		var count int
		if countErr := r.LocalDB.QueryRowContext(ctx, noteExists, ownerID, commitment).Scan(&count); countErr != nil {
			log.Err(countErr).
				Str("func", funcName).
				Str("commitment", commitment).
				Msg("failed to check note existence")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, countErr)
		}
		if count == 0 {
			return ErrNoteNotFound
		}
		// flag already set: idempotent success
	}

	log.Debug().
		Str("func", funcName).
		Str("commitment", commitment).
		Msg(okMsg)

	return nil
}
