// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/adapter"
	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/crypto"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/note"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── fakes ───────────────────────────────────────────────────────────────────

type fakeNotes struct {
	unspent []models.PrivateNote
	pending []models.PrivateNote
	saved   []models.PrivateNote
	queued  []string
	spent   []string

	saveErr error
	listErr error
	markErr error
}

func (f *fakeNotes) SaveNote(_ context.Context, _ string, n models.PrivateNote) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, n)
	return nil
}

func (f *fakeNotes) ListUnspentNotes(_ context.Context, _ string) ([]models.PrivateNote, error) {
	return f.unspent, f.listErr
}

func (f *fakeNotes) ListQueuedNotes(_ context.Context, _ string) ([]models.PrivateNote, error) {
	return f.pending, f.listErr
}

func (f *fakeNotes) MarkNoteQueued(_ context.Context, _ string, commitment string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.queued = append(f.queued, commitment)
	return nil
}

func (f *fakeNotes) MarkNoteSpent(_ context.Context, _ string, commitment string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.spent = append(f.spent, commitment)
	return nil
}

type fakeRelay struct {
	campaign    models.Campaign
	campaignErr error

	enqueueResp models.EnqueueDonationResponse
	enqueueErr  error
	gotEnqueue  models.EnqueueDonationRequest

	donation    models.DonationStatusResponse
	donationErr error

	stats    models.QueueStatsResponse
	statsErr error
}

func (f *fakeRelay) EnqueueDonation(_ context.Context, req models.EnqueueDonationRequest) (models.EnqueueDonationResponse, error) {
	f.gotEnqueue = req
	return f.enqueueResp, f.enqueueErr
}

func (f *fakeRelay) DonationStatus(_ context.Context, _ string) (models.DonationStatusResponse, error) {
	return f.donation, f.donationErr
}

func (f *fakeRelay) DonationStatusByCommitment(_ context.Context, _ string) (models.DonationStatusResponse, error) {
	return f.donation, f.donationErr
}

func (f *fakeRelay) QueueStats(_ context.Context) (models.QueueStatsResponse, error) {
	return f.stats, f.statsErr
}

func (f *fakeRelay) GetCampaign(_ context.Context, _ string) (models.Campaign, error) {
	return f.campaign, f.campaignErr
}

// ── helpers ─────────────────────────────────────────────────────────────────

func testKeypair(t *testing.T) (encoded string, public ed25519.PublicKey) {
	t.Helper()
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	private := ed25519.NewKeyFromSeed(seed)
	return base58.Encode(private), private.Public().(ed25519.PublicKey)
}

func newTestApp(t *testing.T, notes *fakeNotes, relay *fakeRelay) (*App, *bytes.Buffer) {
	t.Helper()
	keypair, _ := testKeypair(t)

	out := &bytes.Buffer{}
	app := &App{
		cfg: &config.DonorConfig{
			OwnerID: "alice",
			Keypair: keypair,
		},
		notes:           notes,
		relay:           relay,
		cipher:          crypto.NewBackupCipher(),
		logger:          logger.Nop(),
		out:             out,
		copyToClipboard: func(string) error { return nil },
	}
	return app, out
}

func unspentNote(t *testing.T, amount uint64) models.PrivateNote {
	t.Helper()
	n, err := note.Generate(amount)
	require.NoError(t, err)
	return n
}

// ── dispatch ────────────────────────────────────────────────────────────────

func TestRun_NoCommand(t *testing.T) {
	app, out := newTestApp(t, &fakeNotes{}, &fakeRelay{})

	err := app.Run(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoCommand)
	assert.Contains(t, out.String(), "usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, &fakeNotes{}, &fakeRelay{})

	err := app.Run(context.Background(), []string{"frobnicate"})

	assert.ErrorIs(t, err, ErrUnknownCommand)
}

// ── generate ────────────────────────────────────────────────────────────────

func TestGenerate_Success(t *testing.T) {
	notes := &fakeNotes{}
	app, out := newTestApp(t, notes, &fakeRelay{})

	err := app.Run(context.Background(), []string{"generate", "-amount", "100000000"})

	require.NoError(t, err)
	require.Len(t, notes.saved, 1)
	assert.Equal(t, uint64(100_000_000), notes.saved[0].Amount)

	stored := note.Serialize(notes.saved[0])
	assert.Contains(t, out.String(), stored.Commitment)
}

func TestGenerate_DisallowedAmount(t *testing.T) {
	notes := &fakeNotes{}
	app, _ := newTestApp(t, notes, &fakeRelay{})

	err := app.Run(context.Background(), []string{"generate", "-amount", "123"})

	require.Error(t, err)
	assert.Empty(t, notes.saved)
}

// ── list ────────────────────────────────────────────────────────────────────

func TestList_Empty(t *testing.T) {
	app, out := newTestApp(t, &fakeNotes{}, &fakeRelay{})

	require.NoError(t, app.Run(context.Background(), []string{"list"}))
	assert.Contains(t, out.String(), "no unspent notes")
}

func TestList_PrintsCommitments(t *testing.T) {
	n := unspentNote(t, 500_000_000)
	app, out := newTestApp(t, &fakeNotes{unspent: []models.PrivateNote{n}}, &fakeRelay{})

	require.NoError(t, app.Run(context.Background(), []string{"list"}))
	assert.Contains(t, out.String(), note.Serialize(n).Commitment)
	assert.Contains(t, out.String(), "500000000")
}

func TestList_FlagsQueuedNotes(t *testing.T) {
	q := unspentNote(t, 100_000_000)
	app, out := newTestApp(t, &fakeNotes{pending: []models.PrivateNote{q}}, &fakeRelay{})

	require.NoError(t, app.Run(context.Background(), []string{"list"}))
	assert.Contains(t, out.String(), note.Serialize(q).Commitment)
	assert.Contains(t, out.String(), "queued")
}

// ── donate ──────────────────────────────────────────────────────────────────

func activeCampaign() models.Campaign {
	return models.Campaign{
		CampaignID: "camp-1",
		Vault:      "VaultAddr111",
		Status:     models.CampaignActive,
	}
}

func TestDonate_Success(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	stored := note.Serialize(n)

	notes := &fakeNotes{unspent: []models.PrivateNote{n}}
	relay := &fakeRelay{
		campaign:    activeCampaign(),
		enqueueResp: models.EnqueueDonationResponse{Success: true, DonationID: "don-1", QueuePosition: 2},
	}
	app, out := newTestApp(t, notes, relay)

	err := app.Run(context.Background(), []string{"donate", "-campaign", "camp-1", "-commitment", stored.Commitment})
	require.NoError(t, err)

	assert.Equal(t, stored.Commitment, relay.gotEnqueue.Commitment)
	assert.Equal(t, stored.Nullifier, relay.gotEnqueue.Nullifier)
	assert.Equal(t, stored.SecretHash, relay.gotEnqueue.SecretHash)
	assert.Equal(t, uint64(100_000_000), relay.gotEnqueue.Amount)
	assert.Equal(t, "camp-1", relay.gotEnqueue.CampaignID)
	assert.Equal(t, "VaultAddr111", relay.gotEnqueue.CampaignVault)

	// the signature must verify against the donor's public key
	_, public := testKeypair(t)
	sig, err := base58.Decode(relay.gotEnqueue.DonorSignature)
	require.NoError(t, err)
	message := []byte(stored.Commitment + "camp-1" + "VaultAddr111")
	assert.True(t, ed25519.Verify(public, message, sig))

	assert.Equal(t, []string{stored.Commitment}, notes.queued, "accepted note leaves the spendable set")
	assert.Empty(t, notes.spent, "spent waits for a confirmed redemption")
	assert.Contains(t, out.String(), "don-1")
}

func TestDonate_AlreadyQueuedFlagsQueued(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	stored := note.Serialize(n)

	notes := &fakeNotes{unspent: []models.PrivateNote{n}}
	relay := &fakeRelay{
		campaign:    activeCampaign(),
		enqueueResp: models.EnqueueDonationResponse{DonationID: "don-existing"},
		enqueueErr:  adapter.ErrConflict,
	}
	app, out := newTestApp(t, notes, relay)

	err := app.Run(context.Background(), []string{"donate", "-campaign", "camp-1", "-commitment", stored.Commitment})

	require.NoError(t, err)
	assert.Equal(t, []string{stored.Commitment}, notes.queued)
	assert.Empty(t, notes.spent)
	assert.Contains(t, out.String(), "don-existing")
}

func TestDonate_CampaignNotActive(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	stored := note.Serialize(n)

	relay := &fakeRelay{campaign: models.Campaign{CampaignID: "camp-1", Status: models.CampaignClosed}}
	app, _ := newTestApp(t, &fakeNotes{unspent: []models.PrivateNote{n}}, relay)

	err := app.Run(context.Background(), []string{"donate", "-campaign", "camp-1", "-commitment", stored.Commitment})

	assert.ErrorIs(t, err, ErrCampaignNotActive)
}

func TestDonate_NoteNotFound(t *testing.T) {
	relay := &fakeRelay{campaign: activeCampaign()}
	app, _ := newTestApp(t, &fakeNotes{}, relay)

	err := app.Run(context.Background(), []string{"donate", "-campaign", "camp-1", "-commitment", "deadbeef"})

	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDonate_KeypairRequired(t *testing.T) {
	app, _ := newTestApp(t, &fakeNotes{}, &fakeRelay{campaign: activeCampaign()})
	app.cfg.Keypair = ""

	err := app.Run(context.Background(), []string{"donate", "-campaign", "camp-1", "-commitment", "deadbeef"})

	assert.ErrorIs(t, err, ErrKeypairRequired)
}

func TestDonate_EnqueueFailureKeepsNote(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	stored := note.Serialize(n)

	notes := &fakeNotes{unspent: []models.PrivateNote{n}}
	relay := &fakeRelay{campaign: activeCampaign(), enqueueErr: adapter.ErrServiceUnavailable}
	app, _ := newTestApp(t, notes, relay)

	err := app.Run(context.Background(), []string{"donate", "-campaign", "camp-1", "-commitment", stored.Commitment})

	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrServiceUnavailable)
	assert.Empty(t, notes.queued)
	assert.Empty(t, notes.spent)
}

// ── status ──────────────────────────────────────────────────────────────────

func TestStatus_ByID(t *testing.T) {
	processed := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	relay := &fakeRelay{donation: models.DonationStatusResponse{
		ID:          "don-1",
		Commitment:  strings.Repeat("ab", 32),
		Status:      models.StatusCompleted,
		Amount:      100_000_000,
		CampaignID:  "camp-1",
		ProcessedAt: &processed,
		TxSignature: "5igLedger",
	}}
	notes := &fakeNotes{}
	app, out := newTestApp(t, notes, relay)

	require.NoError(t, app.Run(context.Background(), []string{"status", "-id", "don-1"}))

	assert.Contains(t, out.String(), "don-1")
	assert.Contains(t, out.String(), "completed")
	assert.Contains(t, out.String(), "5igLedger")
	assert.Equal(t, []string{strings.Repeat("ab", 32)}, notes.spent, "confirmed redemption settles the note")
}

func TestStatus_PendingLeavesNoteQueued(t *testing.T) {
	relay := &fakeRelay{donation: models.DonationStatusResponse{
		ID:         "don-1",
		Commitment: strings.Repeat("ab", 32),
		Status:     models.StatusPending,
	}}
	notes := &fakeNotes{}
	app, _ := newTestApp(t, notes, relay)

	require.NoError(t, app.Run(context.Background(), []string{"status", "-commitment", strings.Repeat("ab", 32)}))

	assert.Empty(t, notes.spent)
}

func TestStatus_CompletedForeignDonation(t *testing.T) {
	// the donation exists at the relay but its note lives in another vault
	relay := &fakeRelay{donation: models.DonationStatusResponse{
		ID:         "don-1",
		Commitment: strings.Repeat("ab", 32),
		Status:     models.StatusCompleted,
	}}
	notes := &fakeNotes{markErr: store.ErrNoteNotFound}
	app, _ := newTestApp(t, notes, relay)

	require.NoError(t, app.Run(context.Background(), []string{"status", "-id", "don-1"}))
}

func TestStatus_QueueStats(t *testing.T) {
	relay := &fakeRelay{stats: models.QueueStatsResponse{
		QueueStats: models.QueueStats{Pending: 3, Completed: 7, Total: 10},
	}}
	app, out := newTestApp(t, &fakeNotes{}, relay)

	require.NoError(t, app.Run(context.Background(), []string{"status"}))

	assert.Contains(t, out.String(), "3 pending")
	assert.Contains(t, out.String(), "10 total")
}

func TestStatus_LookupError(t *testing.T) {
	relay := &fakeRelay{donationErr: adapter.ErrNotFound}
	app, _ := newTestApp(t, &fakeNotes{}, relay)

	err := app.Run(context.Background(), []string{"status", "-id", "missing"})

	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

// ── backup / restore ────────────────────────────────────────────────────────

func TestBackupRestore_RoundTripThroughFile(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	q := unspentNote(t, 500_000_000)
	path := filepath.Join(t.TempDir(), "notes.backup")

	// queued notes are included: their funds are not confirmed gone
	app, out := newTestApp(t, &fakeNotes{
		unspent: []models.PrivateNote{n},
		pending: []models.PrivateNote{q},
	}, &fakeRelay{})
	err := app.Run(context.Background(), []string{"backup", "-passphrase", "pass", "-file", path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "written to")

	restoreNotes := &fakeNotes{}
	restoreApp, restoreOut := newTestApp(t, restoreNotes, &fakeRelay{})
	err = restoreApp.Run(context.Background(), []string{"restore", "-passphrase", "pass", "-file", path})
	require.NoError(t, err)

	require.Len(t, restoreNotes.saved, 2)
	assert.Equal(t, n.Amount, restoreNotes.saved[0].Amount)
	assert.Equal(t, n.Commitment, restoreNotes.saved[0].Commitment)
	assert.Equal(t, q.Commitment, restoreNotes.saved[1].Commitment)
	assert.Contains(t, restoreOut.String(), "restored 2 notes")
}

func TestBackup_CopiesToClipboard(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	app, out := newTestApp(t, &fakeNotes{unspent: []models.PrivateNote{n}}, &fakeRelay{})

	var copied string
	app.copyToClipboard = func(s string) error {
		copied = s
		return nil
	}

	err := app.Run(context.Background(), []string{"backup", "-passphrase", "pass", "-copy"})
	require.NoError(t, err)
	require.NotEmpty(t, copied)
	assert.Contains(t, out.String(), "copied to clipboard")

	// the clipboard blob must open with the same passphrase
	stored, err := app.cipher.Decrypt(copied, "pass")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestBackup_RequiresPassphrase(t *testing.T) {
	app, _ := newTestApp(t, &fakeNotes{}, &fakeRelay{})

	err := app.Run(context.Background(), []string{"backup"})

	require.Error(t, err)
}

func TestRestore_WrongPassphrase(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	path := filepath.Join(t.TempDir(), "notes.backup")

	app, _ := newTestApp(t, &fakeNotes{unspent: []models.PrivateNote{n}}, &fakeRelay{})
	require.NoError(t, app.Run(context.Background(), []string{"backup", "-passphrase", "right", "-file", path}))

	err := app.Run(context.Background(), []string{"restore", "-passphrase", "wrong", "-file", path})
	require.Error(t, err)
}

func TestRestore_SkipsDuplicates(t *testing.T) {
	n := unspentNote(t, 100_000_000)
	path := filepath.Join(t.TempDir(), "notes.backup")

	app, _ := newTestApp(t, &fakeNotes{unspent: []models.PrivateNote{n}}, &fakeRelay{})
	require.NoError(t, app.Run(context.Background(), []string{"backup", "-passphrase", "pass", "-file", path}))

	dupNotes := &fakeNotes{saveErr: errors.New("constraint violation")}
	dupApp, out := newTestApp(t, dupNotes, &fakeRelay{})
	err := dupApp.Run(context.Background(), []string{"restore", "-passphrase", "pass", "-file", path})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "restored 0 notes (1 skipped)")
}
