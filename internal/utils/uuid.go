package utils

import "github.com/google/uuid"

// UUIDGenerator mints donation ids. Version 7 keeps ids roughly sortable by
// enqueue time, which the queue's audit trail relies on; the enqueue
// timestamp is public anyway, so the embedded time leaks nothing new.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a v7 UUID, falling back to v4 if the clock-based
// generator fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
