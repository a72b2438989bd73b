package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the symmetric key length for every suite.
const KeySize = 32

// PBKDF2Iterations is the iteration count for passphrase derivation.
const PBKDF2Iterations = 100000

// passphraseSalt is fixed so the same passphrase yields the same key on the
// encode and decode side without storing anything in the carrier.
var passphraseSalt = []byte("vidstego/passphrase/pbkdf2-sha256")

// Key is a 256-bit symmetric key.
type Key [KeySize]byte

// GenerateKey creates a random key from crypto/rand.
func GenerateKey() (Key, error) {
	var key Key
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return Key{}, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// ParseKey decodes a key from 64 hex characters.
func ParseKey(s string) (Key, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	defer ZeroBytes(raw)

	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), KeySize)
	}

	var key Key
	copy(key[:], raw)
	return key, nil
}

// KeyFromPassphrase derives a key from a passphrase with PBKDF2-SHA256.
func KeyFromPassphrase(passphrase []byte) (Key, error) {
	if len(passphrase) == 0 {
		return Key{}, fmt.Errorf("%w: passphrase cannot be empty", ErrInvalidKey)
	}

	derived := pbkdf2.Key(passphrase, passphraseSalt, PBKDF2Iterations, KeySize, sha256.New)
	defer ZeroBytes(derived)

	var key Key
	copy(key[:], derived)
	return key, nil
}

// DeriveSubkey derives an independent key bound to label with HKDF-SHA256.
// Different labels produce unrelated keys from the same parent.
func DeriveSubkey(parent Key, label string) (Key, error) {
	if label == "" {
		return Key{}, fmt.Errorf("%w: subkey label cannot be empty", ErrInvalidKey)
	}

	reader := hkdf.New(sha256.New, parent[:], nil, []byte("vidstego/"+label))

	var key Key
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return Key{}, fmt.Errorf("failed to derive subkey: %w", err)
	}
	return key, nil
}

// Hex returns the key as lowercase hex. Callers are responsible for not
// logging the result.
func (k Key) Hex() string {
	return hex.EncodeToString(k[:])
}

// IsZero reports whether every byte of the key is zero.
func (k Key) IsZero() bool {
	var acc byte
	for _, b := range k {
		acc |= b
	}
	return acc == 0
}
