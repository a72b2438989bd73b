package crypto

import "errors"

var (
	// ErrAuthentication indicates the tag did not verify against the nonce,
	// ciphertext and key, or the package was malformed. No plaintext is
	// released when this is returned.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidKey indicates key material of the wrong length or encoding.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownSuite indicates an unsupported cipher suite.
	ErrUnknownSuite = errors.New("unknown cipher suite")
)
