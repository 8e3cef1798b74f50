package models

import "time"

// PrivateNote is the donor-held capability to later redeem a deposited
// amount. Only the commitment is ever published at deposit time; the two
// secrets never leave the owner's device except as their hashes.
type PrivateNote struct {
	// Secret is 32 random bytes known only to the owner. Its hash
	// (SecretHash) is revealed at redemption time.
	Secret []byte `json:"secret"`

	// NullifierSecret is 32 random bytes known only to the owner. Its hash
	// (Nullifier) is revealed at redemption time to close the deposit and
	// prevent double-spending.
	NullifierSecret []byte `json:"nullifierSecret"`

	// Amount is the deposited value in the ledger's smallest unit (lamports).
	Amount uint64 `json:"amount"`

	// SecretHash = SHA-256(Secret). Safe to reveal.
	SecretHash []byte `json:"secretHash"`

	// Nullifier = SHA-256(NullifierSecret). Safe to reveal.
	Nullifier []byte `json:"nullifier"`

	// Commitment = SHA-256(SecretHash || Nullifier || AmountLE64). This is
	// the only value published on-chain when the deposit is made.
	Commitment []byte `json:"commitment"`

	CreatedAt time.Time `json:"createdAt"`
	Spent     bool      `json:"spent"`
}

// StoredNote is the fixed-width hex representation of a PrivateNote used for
// local persistence and backup export. Round-trips losslessly with
// PrivateNote through the note codec.
type StoredNote struct {
	Secret          string    `json:"secret"`
	NullifierSecret string    `json:"nullifierSecret"`
	Amount          uint64    `json:"amount"`
	SecretHash      string    `json:"secretHash"`
	Nullifier       string    `json:"nullifier"`
	Commitment      string    `json:"commitment"`
	CreatedAt       time.Time `json:"createdAt"`
	Spent           bool      `json:"spent"`
}
