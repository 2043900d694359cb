// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// SaltLen is the per-user salt size in bytes.
const SaltLen = 16

// Params are Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultParams are tuned for interactive server-side logins.
var DefaultParams = Params{Time: 3, Memory: 64 * 1024, Threads: 1, KeyLen: 32}

// Hasher derives and checks password hashes with fixed parameters.
type Hasher struct {
	p     Params
	dummy []byte
}

// NewHasher returns a Hasher using p.
func NewHasher(p Params) *Hasher {
	return &Hasher{p: p, dummy: make([]byte, SaltLen)}
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("rand: %w", err)
	}
	return b, nil
}

// Hash generates a fresh salt and returns Argon2id(password, salt) with it.
func (h *Hasher) Hash(password string) (hash, salt []byte, err error) {
	salt, err = RandBytes(SaltLen)
	if err != nil {
		return nil, nil, err
	}
	return h.derive([]byte(password), salt), salt, nil
}

// Verify reports whether password matches expected under salt.
func (h *Hasher) Verify(password string, salt, expected []byte) bool {
	got := h.derive([]byte(password), salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// Burn spends one derivation so unknown accounts cost the same as wrong passwords.
func (h *Hasher) Burn(password string) {
	_ = h.derive([]byte(password), h.dummy)
}

func (h *Hasher) derive(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, h.p.Time, h.p.Memory, h.p.Threads, h.p.KeyLen)
}
