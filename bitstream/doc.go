// Package bitstream serializes a sealed message into the bit sequence that is
// written into video frames, and parses it back.
//
// # Payload Layout
//
// The layout is fixed and versionless. All multi-byte integers are big-endian:
//
//	+----------------+-------+------------+-----+--------+
//	| length (4)     | nonce | ciphertext | tag | digest |
//	+----------------+-------+------------+-----+--------+
//
// length counts the bytes that follow it. Nonce, tag and digest have the fixed
// sizes given by the [Layout]; the ciphertext takes whatever remains.
//
// # Bit Order
//
// Bytes are expanded most-significant bit first, in both directions. The first
// [HeaderBits] bits of a payload are therefore the length prefix, which lets an
// extractor learn the total payload length via [TotalBits] before reading the
// rest.
package bitstream
