package bitstream

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/vidstego/checksum"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/opd-ai/vidstego/limits"
	"github.com/sirupsen/logrus"
)

const (
	// HeaderBytes is the width of the length prefix.
	HeaderBytes = 4
	// HeaderBits is the width of the length prefix in bits.
	HeaderBits = HeaderBytes * 8
)

// Layout holds the fixed field sizes of a payload body.
type Layout struct {
	NonceSize  int
	TagSize    int
	DigestSize int
}

// LayoutFor returns the layout used with the given cipher suite.
func LayoutFor(suite crypto.Suite) Layout {
	return Layout{
		NonceSize:  suite.NonceSize(),
		TagSize:    suite.TagSize(),
		DigestSize: checksum.Size,
	}
}

// Overhead is the number of body bytes that are not ciphertext.
func (l Layout) Overhead() int {
	return l.NonceSize + l.TagSize + l.DigestSize
}

// PayloadBits returns the total payload length in bits for a plaintext of n
// bytes. AEAD ciphertexts have the same length as their plaintext.
func (l Layout) PayloadBits(n int) int {
	return HeaderBits + 8*(l.Overhead()+n)
}

// MaxPlaintext returns the largest plaintext that fits in capacityBits, or 0.
func (l Layout) MaxPlaintext(capacityBits int) int {
	n := capacityBits/8 - HeaderBytes - l.Overhead()
	if n < 0 {
		return 0
	}
	return n
}

func (l Layout) validate() error {
	if l.NonceSize <= 0 || l.TagSize <= 0 {
		return fmt.Errorf("invalid layout: nonce %d, tag %d", l.NonceSize, l.TagSize)
	}
	if l.DigestSize != checksum.Size {
		return fmt.Errorf("invalid layout: digest size %d, want %d", l.DigestSize, checksum.Size)
	}
	return nil
}

// Codec converts between sealed packages and payload bits for one layout.
type Codec struct {
	layout Layout
}

// NewCodec creates a codec for layout.
func NewCodec(layout Layout) (*Codec, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	return &Codec{layout: layout}, nil
}

// Layout returns the codec's field sizes.
func (c *Codec) Layout() Layout {
	return c.layout
}

// Marshal lays out pkg and digest as payload bytes, length prefix first.
func (c *Codec) Marshal(pkg *crypto.Package, digest checksum.Digest) ([]byte, error) {
	if pkg == nil {
		return nil, fmt.Errorf("%w: nil package", ErrFormat)
	}
	if len(pkg.Nonce) != c.layout.NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, layout wants %d", ErrFormat, len(pkg.Nonce), c.layout.NonceSize)
	}
	if len(pkg.Tag) != c.layout.TagSize {
		return nil, fmt.Errorf("%w: tag is %d bytes, layout wants %d", ErrFormat, len(pkg.Tag), c.layout.TagSize)
	}

	body := c.layout.Overhead() + len(pkg.Ciphertext)
	if body > limits.MaxPayloadBody {
		return nil, fmt.Errorf("%w: body of %d bytes exceeds limit %d", limits.ErrMessageTooLarge, body, limits.MaxPayloadBody)
	}

	out := make([]byte, HeaderBytes, HeaderBytes+body)
	binary.BigEndian.PutUint32(out, uint32(body))
	out = append(out, pkg.Nonce...)
	out = append(out, pkg.Ciphertext...)
	out = append(out, pkg.Tag...)
	out = append(out, digest[:]...)

	return out, nil
}

// Serialize lays out pkg and digest as payload bits.
func (c *Codec) Serialize(pkg *crypto.Package, digest checksum.Digest) (Bits, error) {
	data, err := c.Marshal(pkg, digest)
	if err != nil {
		return nil, err
	}

	bits := FromBytes(data)
	logrus.WithFields(logrus.Fields{
		"function":     "Codec.Serialize",
		"payload_bits": len(bits),
		"body_bytes":   len(data) - HeaderBytes,
	}).Debug("Payload serialized")

	return bits, nil
}

// Unmarshal parses payload bytes produced by Marshal.
func (c *Codec) Unmarshal(data []byte) (*crypto.Package, checksum.Digest, error) {
	var digest checksum.Digest

	if len(data) < HeaderBytes {
		return nil, digest, fmt.Errorf("%w: %d bytes is shorter than the length prefix", ErrFormat, len(data))
	}

	declared := binary.BigEndian.Uint32(data[:HeaderBytes])
	actual := uint64(len(data) - HeaderBytes)
	if uint64(declared) != actual {
		return nil, digest, fmt.Errorf("%w: length prefix declares %d bytes, got %d", ErrFormat, declared, actual)
	}

	body := data[HeaderBytes:]
	overhead := c.layout.Overhead()
	if len(body) < overhead {
		return nil, digest, fmt.Errorf("%w: body of %d bytes cannot hold nonce, tag and digest (%d bytes)", ErrFormat, len(body), overhead)
	}

	nonceEnd := c.layout.NonceSize
	tagStart := len(body) - c.layout.DigestSize - c.layout.TagSize
	digestStart := len(body) - c.layout.DigestSize

	pkg := &crypto.Package{
		Nonce:      append([]byte(nil), body[:nonceEnd]...),
		Ciphertext: append([]byte{}, body[nonceEnd:tagStart]...),
		Tag:        append([]byte(nil), body[tagStart:digestStart]...),
	}
	copy(digest[:], body[digestStart:])

	return pkg, digest, nil
}

// Deserialize parses payload bits produced by Serialize. The bit count must
// match the length prefix exactly.
func (c *Codec) Deserialize(bits Bits) (*crypto.Package, checksum.Digest, error) {
	if len(bits) < HeaderBits {
		return nil, checksum.Digest{}, fmt.Errorf("%w: %d bits is shorter than the length prefix", ErrFormat, len(bits))
	}

	data, err := bits.Bytes()
	if err != nil {
		return nil, checksum.Digest{}, err
	}

	pkg, digest, err := c.Unmarshal(data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Codec.Deserialize",
			"bits":     len(bits),
			"error":    err.Error(),
		}).Debug("Payload rejected")
		return nil, checksum.Digest{}, err
	}
	return pkg, digest, nil
}

// TotalBits reads the length prefix from the first HeaderBits of header and
// returns the total payload length in bits, prefix included. Prefixes that
// declare more than the largest legal body are rejected with ErrFormat.
func TotalBits(header Bits) (int, error) {
	if len(header) < HeaderBits {
		return 0, fmt.Errorf("%w: need %d header bits, got %d", ErrFormat, HeaderBits, len(header))
	}

	raw, err := header[:HeaderBits].Bytes()
	if err != nil {
		return 0, err
	}

	declared := binary.BigEndian.Uint32(raw)
	if uint64(declared) > uint64(limits.MaxPayloadBody) {
		return 0, fmt.Errorf("%w: length prefix declares %d bytes, limit is %d", ErrFormat, declared, limits.MaxPayloadBody)
	}

	return HeaderBits + 8*int(declared), nil
}
