package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/adapter"
	"github.com/Txrmarcos/offuscate-relay/internal/ledger"
	"github.com/Txrmarcos/offuscate-relay/internal/note"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/validators"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// generate draws a fresh deposit note, saves it to the local vault and
// prints the commitment the donor has to fund on-chain.
func (a *App) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(a.out)
	amount := fs.Uint64("amount", 0, "deposit amount in lamports")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !validators.AmountAllowed(*amount) {
		return fmt.Errorf("%w: %d (allowed: %v)", validators.ErrAmountNotAllowed, *amount, validators.AllowedAmounts)
	}

	n, err := note.Generate(*amount)
	if err != nil {
		return fmt.Errorf("generate note: %w", err)
	}
	if err = a.notes.SaveNote(ctx, a.cfg.OwnerID, n); err != nil {
		return fmt.Errorf("save note: %w", err)
	}

	stored := note.Serialize(n)
	fmt.Fprintf(a.out, "note generated\n  commitment: %s\n  amount:     %d\n", stored.Commitment, stored.Amount)
	fmt.Fprintln(a.out, "fund the deposit on-chain with this commitment, then run `donor donate`")
	fmt.Fprintln(a.out, "run `donor backup` now: a lost vault file means lost funds")
	return nil
}

// list prints the owner's unspent notes in creation order. Notes queued at
// the relay but not yet confirmed redeemed are flagged.
func (a *App) list(ctx context.Context) error {
	spendable, err := a.notes.ListUnspentNotes(ctx, a.cfg.OwnerID)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	queued, err := a.notes.ListQueuedNotes(ctx, a.cfg.OwnerID)
	if err != nil {
		return fmt.Errorf("list queued notes: %w", err)
	}
	if len(spendable) == 0 && len(queued) == 0 {
		fmt.Fprintln(a.out, "no unspent notes")
		return nil
	}

	for _, n := range spendable {
		s := note.Serialize(n)
		fmt.Fprintf(a.out, "%s  %12d  %s\n", s.Commitment, s.Amount, s.CreatedAt.Format(time.RFC3339))
	}
	for _, n := range queued {
		s := note.Serialize(n)
		fmt.Fprintf(a.out, "%s  %12d  %s  queued\n", s.Commitment, s.Amount, s.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// donate queues an unspent note for redemption into a campaign vault. The
// note is flagged queued locally once the relay accepts it (including the
// case where the commitment was already queued by an earlier attempt); the
// spent flag is set only when a later status lookup confirms the redemption
// completed and the nullifier is consumed.
func (a *App) donate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("donate", flag.ContinueOnError)
	fs.SetOutput(a.out)
	campaignID := fs.String("campaign", "", "target campaign id")
	commitment := fs.String("commitment", "", "hex commitment of the note to spend")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *campaignID == "" || *commitment == "" {
		return fmt.Errorf("%w: campaign and commitment", validators.ErrMissingField)
	}

	if a.cfg.Keypair == "" {
		return ErrKeypairRequired
	}
	keypair, err := ledger.KeypairFromBase58(a.cfg.Keypair)
	if err != nil {
		return fmt.Errorf("parse keypair: %w", err)
	}

	campaign, err := a.relay.GetCampaign(ctx, *campaignID)
	if err != nil {
		return fmt.Errorf("get campaign: %w", err)
	}
	if campaign.Status != models.CampaignActive {
		return fmt.Errorf("%w: %s is %s", ErrCampaignNotActive, campaign.CampaignID, campaign.Status)
	}

	notes, err := a.notes.ListUnspentNotes(ctx, a.cfg.OwnerID)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	var stored models.StoredNote
	found := false
	want := strings.ToLower(strings.TrimSpace(*commitment))
	for _, n := range notes {
		s := note.Serialize(n)
		if s.Commitment == want {
			stored, found = s, true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, want)
	}

	// the on-chain program verifies this signature against the note owner
	message := []byte(stored.Commitment + campaign.CampaignID + campaign.Vault)
	req := models.EnqueueDonationRequest{
		Commitment:     stored.Commitment,
		Nullifier:      stored.Nullifier,
		SecretHash:     stored.SecretHash,
		Amount:         stored.Amount,
		CampaignID:     campaign.CampaignID,
		CampaignVault:  campaign.Vault,
		DonorSignature: keypair.Sign(message),
	}

	resp, err := a.relay.EnqueueDonation(ctx, req)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "donation queued\n  id:       %s\n  position: %d\n", resp.DonationID, resp.QueuePosition)
		if resp.EstimatedProcessingTime > 0 {
			fmt.Fprintf(a.out, "  estimate: within %d seconds\n", resp.EstimatedProcessingTime)
		}
	case errors.Is(err, adapter.ErrConflict) && resp.DonationID != "":
		fmt.Fprintf(a.out, "commitment already queued as %s\n", resp.DonationID)
	default:
		return fmt.Errorf("enqueue donation: %w", err)
	}

	if err = a.notes.MarkNoteQueued(ctx, a.cfg.OwnerID, stored.Commitment); err != nil {
		return fmt.Errorf("mark note queued: %w", err)
	}
	fmt.Fprintf(a.out, "run `donor status -commitment %s` after the next batch to confirm\n", stored.Commitment)
	return nil
}

// status reports a single donation by id or commitment, or the aggregate
// queue counters when neither is given.
func (a *App) status(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(a.out)
	id := fs.String("id", "", "donation id")
	commitment := fs.String("commitment", "", "hex commitment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *id != "":
		resp, err := a.relay.DonationStatus(ctx, *id)
		if err != nil {
			return fmt.Errorf("donation status: %w", err)
		}
		a.printDonation(resp)
		if err = a.settleNote(ctx, resp); err != nil {
			return err
		}

	case *commitment != "":
		resp, err := a.relay.DonationStatusByCommitment(ctx, strings.ToLower(strings.TrimSpace(*commitment)))
		if err != nil {
			return fmt.Errorf("donation status: %w", err)
		}
		a.printDonation(resp)
		if err = a.settleNote(ctx, resp); err != nil {
			return err
		}

	default:
		stats, err := a.relay.QueueStats(ctx)
		if err != nil {
			return fmt.Errorf("queue stats: %w", err)
		}
		fmt.Fprintf(a.out, "queue: %d pending, %d processing, %d completed, %d failed (%d total)\n",
			stats.Pending, stats.Processing, stats.Completed, stats.Failed, stats.Total)
		if stats.LastProcessed != nil {
			fmt.Fprintf(a.out, "last batch: %s\n", stats.LastProcessed.Format(time.RFC3339))
		}
	}
	return nil
}

// settleNote marks the local note spent once the relay confirms the
// redemption completed and its nullifier is consumed. Donations queued from
// another vault are not ours to settle, so an unknown commitment is fine.
func (a *App) settleNote(ctx context.Context, d models.DonationStatusResponse) error {
	if d.Status != models.StatusCompleted || d.Commitment == "" {
		return nil
	}

	err := a.notes.MarkNoteSpent(ctx, a.cfg.OwnerID, d.Commitment)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "  note marked spent in the local vault")
	case errors.Is(err, store.ErrNoteNotFound):
	default:
		return fmt.Errorf("mark note spent: %w", err)
	}
	return nil
}

func (a *App) printDonation(d models.DonationStatusResponse) {
	fmt.Fprintf(a.out, "donation %s\n  status:   %s\n  amount:   %d\n  campaign: %s\n", d.ID, d.Status, d.Amount, d.CampaignID)
	if d.ProcessedAt != nil {
		fmt.Fprintf(a.out, "  processed: %s\n", d.ProcessedAt.Format(time.RFC3339))
	}
	if d.TxSignature != "" {
		fmt.Fprintf(a.out, "  tx: %s\n", d.TxSignature)
	}
	if d.FailedStep != 0 {
		fmt.Fprintf(a.out, "  failed at step %d\n", d.FailedStep)
	}
}

// backup exports the owner's unspent notes (queued ones included, their
// funds are not confirmed gone) as a passphrase-sealed blob, written to a
// file, copied to the clipboard, or printed.
func (a *App) backup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	fs.SetOutput(a.out)
	passphrase := fs.String("passphrase", "", "backup encryption passphrase")
	file := fs.String("file", "", "write the backup to this file")
	copyFlag := fs.Bool("copy", false, "copy the backup to the clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *passphrase == "" {
		return fmt.Errorf("%w: passphrase", validators.ErrMissingField)
	}

	spendable, err := a.notes.ListUnspentNotes(ctx, a.cfg.OwnerID)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	queued, err := a.notes.ListQueuedNotes(ctx, a.cfg.OwnerID)
	if err != nil {
		return fmt.Errorf("list queued notes: %w", err)
	}

	stored := make([]models.StoredNote, 0, len(spendable)+len(queued))
	for _, n := range append(spendable, queued...) {
		stored = append(stored, note.Serialize(n))
	}

	blob, err := a.cipher.Encrypt(stored, *passphrase)
	if err != nil {
		return fmt.Errorf("encrypt backup: %w", err)
	}

	if *file != "" {
		if err = os.WriteFile(*file, []byte(blob+"\n"), 0o600); err != nil {
			return fmt.Errorf("write backup file: %w", err)
		}
		fmt.Fprintf(a.out, "backup of %d notes written to %s\n", len(stored), *file)
	}
	if *copyFlag {
		if err = a.copyToClipboard(blob); err != nil {
			return fmt.Errorf("copy backup to clipboard: %w", err)
		}
		fmt.Fprintf(a.out, "backup of %d notes copied to clipboard\n", len(stored))
	}
	if *file == "" && !*copyFlag {
		fmt.Fprintln(a.out, blob)
	}
	return nil
}

// restore imports notes from a passphrase-sealed backup into the local
// vault. Notes that are already present are skipped.
func (a *App) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(a.out)
	passphrase := fs.String("passphrase", "", "backup encryption passphrase")
	file := fs.String("file", "", "backup file to import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *passphrase == "" || *file == "" {
		return fmt.Errorf("%w: passphrase and file", validators.ErrMissingField)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}

	stored, err := a.cipher.Decrypt(strings.TrimSpace(string(data)), *passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}

	restored, skipped := 0, 0
	for _, s := range stored {
		n, err := note.Deserialize(s)
		if err != nil {
			return fmt.Errorf("corrupt note in backup: %w", err)
		}
		if err = a.notes.SaveNote(ctx, a.cfg.OwnerID, n); err != nil {
			a.logger.Warn().Err(err).Str("commitment", s.Commitment).Msg("note skipped during restore")
			skipped++
			continue
		}
		restored++
	}

	fmt.Fprintf(a.out, "restored %d notes (%d skipped)\n", restored, skipped)
	return nil
}
