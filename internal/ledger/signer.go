package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// Keypair is an ed25519 signing identity, held by the relayer processor on
// the server side and by the donor CLI for authorizing redemptions. The
// HTTP layer and the queue never see one.
type Keypair struct {
	private ed25519.PrivateKey
	public  string
}

// KeypairFromBase58 decodes a base58-encoded 64-byte ed25519 private key
// (the standard wallet export format).
func KeypairFromBase58(encoded string) (*Keypair, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeypair, ed25519.PrivateKeySize, len(raw))
	}

	private := ed25519.PrivateKey(raw)
	public := base58.Encode(private.Public().(ed25519.PublicKey))

	return &Keypair{private: private, public: public}, nil
}

// PublicKey returns the base58-encoded public key, which doubles as the
// relayer's account address.
func (k *Keypair) PublicKey() string {
	return k.public
}

// Sign returns the base58-encoded ed25519 signature over message.
func (k *Keypair) Sign(message []byte) string {
	return base58.Encode(ed25519.Sign(k.private, message))
}
