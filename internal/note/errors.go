package note

import "errors"

// Sentinel errors returned by the note codec. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrMalformedHex is returned when a stored note field cannot be decoded
	// as hexadecimal.
	ErrMalformedHex = errors.New("malformed hex in stored note")

	// ErrInvalidLength is returned when a decoded note field does not have
	// the expected 32-byte width.
	ErrInvalidLength = errors.New("invalid note field length")

	// ErrInvalidAmount is returned when a note is generated or recomputed
	// with a zero amount.
	ErrInvalidAmount = errors.New("note amount must be positive")
)
