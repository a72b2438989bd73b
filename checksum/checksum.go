// Package checksum computes the advisory integrity snapshot carried next to
// the sealed message.
//
// The digest is an MD5 over the plaintext. It is a second, independent signal
// reported alongside a successful decryption and is never a substitute for the
// authentication tag: a mismatch is a status, not an error.
package checksum

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
)

// Size is the digest length in bytes.
const Size = md5.Size

// Digest is a fixed-length integrity snapshot.
type Digest [Size]byte

// Compute returns the digest of data.
func Compute(data []byte) Digest {
	return Digest(md5.Sum(data))
}

// Verify reports whether data matches digest.
func Verify(data []byte, digest Digest) bool {
	sum := Compute(data)
	return subtle.ConstantTimeCompare(sum[:], digest[:]) == 1
}

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Status is the advisory result of checking a decrypted message.
type Status int

const (
	// StatusVerified means the recomputed digest matched the embedded one.
	StatusVerified Status = iota
	// StatusMismatch means the digests differ. The message is still delivered.
	StatusMismatch
)

// String returns "verified" or "mismatch".
func (s Status) String() string {
	switch s {
	case StatusVerified:
		return "verified"
	case StatusMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Check verifies data against digest and returns the matching Status.
func Check(data []byte, digest Digest) Status {
	if Verify(data, digest) {
		return StatusVerified
	}
	return StatusMismatch
}
