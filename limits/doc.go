// Package limits centralizes the size limits shared by the embedding pipeline.
//
// The bitstream length prefix is a 32-bit byte count, so payloads are bounded
// well below that to keep frame buffers and bit slices at a sane size. Every
// component validates against these constants instead of defining its own.
package limits
