package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Package is a sealed message: the nonce it was sealed under, the ciphertext
// and the detached authentication tag.
type Package struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// Size returns the total number of bytes across all fields.
func (p *Package) Size() int {
	return len(p.Nonce) + len(p.Ciphertext) + len(p.Tag)
}

// generateNonce reads a fresh nonce of the suite's length from crypto/rand.
func generateNonce(suite Suite) ([]byte, error) {
	nonce := make([]byte, suite.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce.
func Encrypt(plaintext []byte, key Key) (*Package, error) {
	return EncryptWithSuite(plaintext, key, SuiteAES256GCM)
}

// EncryptWithSuite seals plaintext with the given suite under a fresh random
// nonce. The nonce is never reused because it is never taken from the caller.
func EncryptWithSuite(plaintext []byte, key Key, suite Suite) (*Package, error) {
	log := NewLogger("EncryptWithSuite").WithFields(logrus.Fields{
		"suite":          suite.String(),
		"plaintext_size": len(plaintext),
	})
	log.Debug("Sealing plaintext")

	aead, err := suite.aead(key)
	if err != nil {
		log.WithError(err, "aead_init").Error("Cipher initialization failed")
		return nil, err
	}

	nonce, err := generateNonce(suite)
	if err != nil {
		log.WithError(err, "nonce_generation").Error("Nonce generation failed")
		return nil, err
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - aead.Overhead()

	pkg := &Package{
		Nonce:      nonce,
		Ciphertext: sealed[:split:split],
		Tag:        sealed[split:],
	}

	log.WithFields(PreviewFields(nonce, "nonce")).
		WithField("ciphertext_size", len(pkg.Ciphertext)).
		Debug("Plaintext sealed")

	return pkg, nil
}
