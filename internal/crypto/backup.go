// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Txrmarcos/offuscate-relay/models"
	"golang.org/x/crypto/argon2"
)

const saltLen = 16

// backupCipher is the private implementation of [BackupCipher].
type backupCipher struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewBackupCipher constructs a [BackupCipher] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewBackupCipher() BackupCipher {
	return &backupCipher{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// Encrypt implements [BackupCipher].
func (c *backupCipher) Encrypt(notes []models.StoredNote, passphrase string) (string, error) {
	payload, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("marshal notes: %w", err)
	}

	salt := make([]byte, saltLen)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := c.newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := append(salt, gcm.Seal(nonce, nonce, payload, nil)...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [BackupCipher].
func (c *backupCipher) Decrypt(encoded string, passphrase string) ([]models.StoredNote, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if len(blob) < saltLen {
		return nil, fmt.Errorf("backup too short")
	}

	salt, sealed := blob[:saltLen], blob[saltLen:]

	gcm, err := c.newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("backup too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	payload, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}

	var notes []models.StoredNote
	if err = json.Unmarshal(payload, &notes); err != nil {
		return nil, fmt.Errorf("unmarshal notes: %w", err)
	}
	return notes, nil
}

func (c *backupCipher) newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(
		[]byte(passphrase),
		salt,
		c.argonTime,
		c.argonMemory,
		c.argonThreads,
		c.argonKeyLen,
	)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
