// Package note implements the commitment/nullifier deposit note scheme.
//
// A note binds two owner-held 32-byte secrets and an amount into a single
// published commitment:
//
//	secretHash = SHA-256(secret)
//	nullifier  = SHA-256(nullifierSecret)
//	commitment = SHA-256(secretHash || nullifier || amountLE64)
//
// The commitment is the only value ever published at deposit time. At
// redemption time the owner reveals secretHash and nullifier; the on-chain
// program recomputes the commitment and marks the nullifier as used, so a
// deposit can be closed exactly once without revealing which deposit it was.
//
// The package is pure: no I/O beyond randomness consumption in [Generate].
package note

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Txrmarcos/offuscate-relay/models"
)

// FieldLen is the byte width of every note field (secrets and hashes).
const FieldLen = 32

// Generate draws two independent 32-byte secrets from crypto/rand and
// derives the reveal-safe hashes and the commitment for the given amount.
func Generate(amount uint64) (models.PrivateNote, error) {
	if amount == 0 {
		return models.PrivateNote{}, ErrInvalidAmount
	}

	secret := make([]byte, FieldLen)
	if _, err := rand.Read(secret); err != nil {
		return models.PrivateNote{}, fmt.Errorf("reading note secret randomness: %w", err)
	}

	nullifierSecret := make([]byte, FieldLen)
	if _, err := rand.Read(nullifierSecret); err != nil {
		return models.PrivateNote{}, fmt.Errorf("reading nullifier randomness: %w", err)
	}

	derived, err := Recompute(secret, nullifierSecret, amount)
	if err != nil {
		return models.PrivateNote{}, err
	}

	return models.PrivateNote{
		Secret:          secret,
		NullifierSecret: nullifierSecret,
		Amount:          amount,
		SecretHash:      derived.SecretHash,
		Nullifier:       derived.Nullifier,
		Commitment:      derived.Commitment,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Derived holds the three reveal-safe hashes computed from a note's secrets.
type Derived struct {
	SecretHash []byte
	Nullifier  []byte
	Commitment []byte
}

// Recompute derives secretHash, nullifier and commitment from the stored
// secrets. For any (secret, nullifierSecret, amount) it reproduces exactly
// the values produced by [Generate] with the same inputs.
func Recompute(secret, nullifierSecret []byte, amount uint64) (Derived, error) {
	if len(secret) != FieldLen || len(nullifierSecret) != FieldLen {
		return Derived{}, ErrInvalidLength
	}
	if amount == 0 {
		return Derived{}, ErrInvalidAmount
	}

	secretHash := sha256.Sum256(secret)
	nullifier := sha256.Sum256(nullifierSecret)

	return Derived{
		SecretHash: secretHash[:],
		Nullifier:  nullifier[:],
		Commitment: Commitment(secretHash[:], nullifier[:], amount),
	}, nil
}

// Commitment computes SHA-256(secretHash || nullifier || amountLE64), the
// exact preimage layout the on-chain program verifies at redemption time.
func Commitment(secretHash, nullifier []byte, amount uint64) []byte {
	preimage := make([]byte, 0, 2*FieldLen+8)
	preimage = append(preimage, secretHash...)
	preimage = append(preimage, nullifier...)
	preimage = binary.LittleEndian.AppendUint64(preimage, amount)

	commitment := sha256.Sum256(preimage)
	return commitment[:]
}

// Serialize converts a note to its fixed-width hex representation for local
// persistence and backup export.
func Serialize(n models.PrivateNote) models.StoredNote {
	return models.StoredNote{
		Secret:          hex.EncodeToString(n.Secret),
		NullifierSecret: hex.EncodeToString(n.NullifierSecret),
		Amount:          n.Amount,
		SecretHash:      hex.EncodeToString(n.SecretHash),
		Nullifier:       hex.EncodeToString(n.Nullifier),
		Commitment:      hex.EncodeToString(n.Commitment),
		CreatedAt:       n.CreatedAt,
		Spent:           n.Spent,
	}
}

// Deserialize parses a stored note back into its byte form.
//
// Returns [ErrMalformedHex] when a field is not valid hexadecimal and
// [ErrInvalidLength] when a decoded field is not exactly 32 bytes.
func Deserialize(s models.StoredNote) (models.PrivateNote, error) {
	secret, err := decodeField(s.Secret)
	if err != nil {
		return models.PrivateNote{}, fmt.Errorf("secret: %w", err)
	}

	nullifierSecret, err := decodeField(s.NullifierSecret)
	if err != nil {
		return models.PrivateNote{}, fmt.Errorf("nullifierSecret: %w", err)
	}

	secretHash, err := decodeField(s.SecretHash)
	if err != nil {
		return models.PrivateNote{}, fmt.Errorf("secretHash: %w", err)
	}

	nullifier, err := decodeField(s.Nullifier)
	if err != nil {
		return models.PrivateNote{}, fmt.Errorf("nullifier: %w", err)
	}

	commitment, err := decodeField(s.Commitment)
	if err != nil {
		return models.PrivateNote{}, fmt.Errorf("commitment: %w", err)
	}

	return models.PrivateNote{
		Secret:          secret,
		NullifierSecret: nullifierSecret,
		Amount:          s.Amount,
		SecretHash:      secretHash,
		Nullifier:       nullifier,
		Commitment:      commitment,
		CreatedAt:       s.CreatedAt,
		Spent:           s.Spent,
	}, nil
}

// DecodeHexField decodes a single 64-character hex field such as a
// commitment or nullifier received over the wire.
func DecodeHexField(s string) ([]byte, error) {
	return decodeField(s)
}

func decodeField(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHex, err)
	}
	if len(b) != FieldLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), FieldLen)
	}
	return b, nil
}
