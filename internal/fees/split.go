// Package fees computes the fee/recipient split for the two-transaction
// redemption model: transaction 1 moves the fee to the relayer's own
// account, transaction 2 moves the remainder to the campaign vault. Paying
// the fee from a separate relayer-bound transaction is what keeps the donor
// from ever appearing as fee payer on the ledger.
package fees

import "errors"

// ErrInvalidFeeRate is returned when the fee rate is outside [0, 1).
var ErrInvalidFeeRate = errors.New("fee rate must be in [0, 1)")

// Split is the exact division of a requested amount between the relayer fee
// and the campaign recipient. FeeAmount + RecipientAmount == Amount always.
type Split struct {
	FeeAmount       uint64
	RecipientAmount uint64
}

// Compute splits amount by feeRate: the fee is floor(amount * feeRate) and
// the floor remainder goes to the recipient, so no value is created or
// destroyed by rounding.
func Compute(amount uint64, feeRate float64) (Split, error) {
	if feeRate < 0 || feeRate >= 1 {
		return Split{}, ErrInvalidFeeRate
	}

	fee := uint64(float64(amount) * feeRate)
	if fee > amount {
		// float rounding can only overshoot by at most one unit near
		// feeRate -> 1; clamp to preserve conservation
		fee = amount
	}

	return Split{
		FeeAmount:       fee,
		RecipientAmount: amount - fee,
	}, nil
}
