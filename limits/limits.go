package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxPlaintextMessage is the largest message accepted for embedding (16 MiB).
	MaxPlaintextMessage = 16 * 1024 * 1024

	// EncryptionOverhead is the AEAD authentication tag length.
	EncryptionOverhead = 16

	// MaxNonceSize is the longest nonce used by any supported cipher suite
	// (XChaCha20-Poly1305).
	MaxNonceSize = 24

	// DigestSize is the length of the integrity snapshot (MD5).
	DigestSize = 16

	// MaxPayloadBody is the largest body the bitstream length prefix may declare:
	// nonce, ciphertext, tag and digest of a maximum size message.
	MaxPayloadBody = MaxNonceSize + MaxPlaintextMessage + EncryptionOverhead + DigestSize

	// MaxIndexEntries bounds the number of frame indices an index artifact may hold.
	MaxIndexEntries = 1 << 20
)

var (
	// ErrMessageTooLarge indicates a message exceeds the maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrTooManyIndices indicates a frame index list exceeds MaxIndexEntries.
	ErrTooManyIndices = errors.New("too many frame indices")
)

// ValidatePlaintext checks a plaintext against MaxPlaintextMessage.
// Empty messages are valid.
func ValidatePlaintext(message []byte) error {
	if len(message) > MaxPlaintextMessage {
		return fmt.Errorf("%w: plaintext size %d exceeds limit %d", ErrMessageTooLarge, len(message), MaxPlaintextMessage)
	}
	return nil
}

// ValidateIndexCount checks a frame index count against MaxIndexEntries.
func ValidateIndexCount(n int) error {
	if n > MaxIndexEntries {
		return fmt.Errorf("%w: %d entries exceeds limit %d", ErrTooManyIndices, n, MaxIndexEntries)
	}
	return nil
}
