package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewUUID returns a random v4 uuid string. Pledge and asset ids on the wire
// are caller-supplied uuids; this is the generator tests and tooling use.
func NewUUID() string {
	return uuid.NewString()
}

// IsUUID reports whether s parses as a uuid.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
