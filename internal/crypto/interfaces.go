// SPDX-License-Identifier: Apache-2.0

// Package crypto implements passphrase encryption for note vault backups.
//
// A note backup is the donor's only way to recover deposited funds if the
// local vault file is lost, so exported backups are never written in the
// clear. The scheme is Argon2id key derivation plus AES-256-GCM:
//
//	salt  = 16 random bytes
//	key   = Argon2id(passphrase, salt)
//	blob  = salt || nonce || AES-GCM(key, JSON(notes))
//
// The blob is base64-encoded so it survives clipboards and text files.
package crypto

import "github.com/Txrmarcos/offuscate-relay/models"

// BackupCipher seals and opens note vault backups with a passphrase. It
// knows nothing about the network or the vault database.
type BackupCipher interface {
	// Encrypt serializes notes to JSON and seals them under passphrase.
	// Each call generates a fresh salt and nonce, so encrypting the same
	// notes twice yields different blobs.
	Encrypt(notes []models.StoredNote, passphrase string) (string, error)

	// Decrypt opens a blob produced by Encrypt. Returns an error if the
	// passphrase is wrong or the blob has been tampered with.
	Decrypt(encoded string, passphrase string) ([]models.StoredNote, error)
}
