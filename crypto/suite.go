package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Suite identifies the AEAD construction used to seal a payload.
type Suite uint8

const (
	// SuiteAES256GCM is AES-256-GCM with a 12-byte nonce.
	SuiteAES256GCM Suite = iota
	// SuiteXChaCha20Poly1305 is XChaCha20-Poly1305 with a 24-byte nonce.
	SuiteXChaCha20Poly1305
)

// TagSize is the authentication tag length shared by every suite.
const TagSize = 16

var suiteNames = map[Suite]string{
	SuiteAES256GCM:         "aes-256-gcm",
	SuiteXChaCha20Poly1305: "xchacha20-poly1305",
}

// String returns the canonical suite name.
func (s Suite) String() string {
	if name, ok := suiteNames[s]; ok {
		return name
	}
	return fmt.Sprintf("suite(%d)", uint8(s))
}

// NonceSize returns the nonce length in bytes, or 0 for an unknown suite.
func (s Suite) NonceSize() int {
	switch s {
	case SuiteAES256GCM:
		return 12
	case SuiteXChaCha20Poly1305:
		return chacha20poly1305.NonceSizeX
	default:
		return 0
	}
}

// TagSize returns the authentication tag length in bytes.
func (s Suite) TagSize() int {
	return TagSize
}

// ParseSuite parses a suite name such as "aes-256-gcm". Matching is case
// insensitive and ignores surrounding whitespace.
func ParseSuite(name string) (Suite, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for suite, n := range suiteNames {
		if n == clean {
			return suite, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
}

// aead builds the cipher.AEAD for the suite.
func (s Suite) aead(key Key) (cipher.AEAD, error) {
	switch s {
	case SuiteAES256GCM:
		block, err := aes.NewCipher(key[:])
		if err != nil {
			return nil, fmt.Errorf("failed to create AES cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return gcm, nil
	case SuiteXChaCha20Poly1305:
		aead, err := chacha20poly1305.NewX(key[:])
		if err != nil {
			return nil, fmt.Errorf("failed to create XChaCha20-Poly1305: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSuite, uint8(s))
	}
}
