package domain

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Credential is an exchange API key pair supplied by the caller for a single
// request. It is never persisted.
type Credential struct {
	APIKey    string
	APISecret string
}

// String redacts both halves so a Credential can be logged safely.
func (c Credential) String() string {
	return "Credential{APIKey:" + c.Fingerprint() + ", APISecret:[REDACTED]}"
}

// Fingerprint identifies the API key without revealing it.
func (c Credential) Fingerprint() string {
	return KeyFingerprint(c.APIKey)
}

// KeyFingerprint returns the first 16 hex chars of blake2b-256(key).
// An empty key yields an empty fingerprint.
func KeyFingerprint(key string) string {
	if key == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
