package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe overwrites a byte slice holding sensitive data with zeros.
// It returns an error if the slice is nil.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	zeros := make([]byte, len(data))
	subtle.ConstantTimeCopy(1, data, zeros)

	// Keep the buffer reachable so the store is not elided.
	runtime.KeepAlive(data)

	return nil
}

// ZeroBytes wipes data, ignoring the nil error from SecureWipe.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	if k == nil {
		return
	}
	ZeroBytes(k[:])
}
