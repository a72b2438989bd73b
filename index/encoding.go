package index

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/limits"
)

// EncodeSelection serializes sel as a big-endian uint32 count followed by one
// big-endian uint32 per index.
func EncodeSelection(sel video.Selection) ([]byte, error) {
	if err := limits.ValidateIndexCount(len(sel)); err != nil {
		return nil, err
	}

	out := make([]byte, 4+4*len(sel))
	binary.BigEndian.PutUint32(out, uint32(len(sel)))
	for i, idx := range sel {
		if idx < 0 || int64(idx) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: index %d cannot be stored", video.ErrInvalidSelection, idx)
		}
		binary.BigEndian.PutUint32(out[4+4*i:], uint32(idx))
	}
	return out, nil
}

// DecodeSelection parses a record written by EncodeSelection.
func DecodeSelection(data []byte) (video.Selection, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: record of %d bytes has no count", ErrCorruptIndex, len(data))
	}

	count := binary.BigEndian.Uint32(data)
	if err := limits.ValidateIndexCount(int(count)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	if want := 4 + 4*int(count); len(data) != want {
		return nil, fmt.Errorf("%w: record of %d bytes, count %d needs %d", ErrCorruptIndex, len(data), count, want)
	}

	sel := make(video.Selection, count)
	for i := range sel {
		sel[i] = int(binary.BigEndian.Uint32(data[4+4*i:]))
	}
	return sel, nil
}
