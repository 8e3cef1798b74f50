// Package ledger talks to the ledger node the relayer submits redemption
// transactions to. The production client speaks JSON-RPC; tests substitute
// a hand-written fake behind the [Client] interface.
package ledger

import "context"

// RedemptionInstruction is one transfer leg of a redemption. The relayer
// submits two of these per donation: the fee leg to its own fee account and
// the recipient leg to the campaign vault. The reveal fields let the
// on-chain program check the commitment and close the deposit.
type RedemptionInstruction struct {
	// Nullifier and SecretHash are the hex-encoded reveal hashes of the
	// note being redeemed.
	Nullifier  string
	SecretHash string

	// Recipient is the base58 destination account.
	Recipient string

	// Amount is the transfer value in lamports.
	Amount uint64

	// DonorSignature authorizes this destination for this commitment.
	DonorSignature string
}

// Client is the relayer's view of the ledger.
type Client interface {
	// Balance returns the lamport balance of the given base58 account.
	Balance(ctx context.Context, account string) (uint64, error)

	// SubmitRedemption signs and submits one transfer leg and returns the
	// ledger transaction signature.
	SubmitRedemption(ctx context.Context, instr RedemptionInstruction) (string, error)
}
