package video

import (
	"fmt"

	"github.com/opd-ai/vidstego/bitstream"
	"github.com/sirupsen/logrus"
)

// EmbedFrame overwrites the least-significant bit of f's slots with bits, in
// traversal order, until the frame's capacity or the bits run out. It returns
// the number of bits consumed.
func (p Plan) EmbedFrame(f *Frame, bits bitstream.Bits) int {
	n := p.FrameCapacity(f)
	if len(bits) < n {
		n = len(bits)
	}

	chans := p.mask().channels()
	for slot := 0; slot < n; slot++ {
		i := slotOffset(f, chans, slot)
		f.Pix[i] = f.Pix[i]&0xFE | bits[slot]&1
	}
	return n
}

// Embed distributes bits over frames in order. Capacity is checked before any
// frame is touched; on ErrCapacity every frame is left as it was. Frames that
// receive no bits are not modified. It returns the positions (indexes into
// frames) that received at least one bit.
func (p Plan) Embed(frames []*Frame, bits bitstream.Bits) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateFrames(frames); err != nil {
		return nil, err
	}

	capacity := p.Capacity(frames)
	if len(bits) > capacity {
		logrus.WithFields(logrus.Fields{
			"function":     "Plan.Embed",
			"payload_bits": len(bits),
			"capacity":     capacity,
			"frames":       len(frames),
		}).Error("Payload does not fit in selected frames")
		return nil, fmt.Errorf("%w: payload needs %d bits, frames hold %d", ErrCapacity, len(bits), capacity)
	}

	var modified []int
	remaining := bits
	for pos, f := range frames {
		if len(remaining) == 0 {
			break
		}
		consumed := p.EmbedFrame(f, remaining)
		if consumed > 0 {
			modified = append(modified, pos)
		}
		remaining = remaining[consumed:]

		logrus.WithFields(logrus.Fields{
			"function":       "Plan.Embed",
			"position":       pos,
			"bits_consumed":  consumed,
			"bits_remaining": len(remaining),
		}).Debug("Frame embedded")
	}

	logrus.WithFields(logrus.Fields{
		"function":        "Plan.Embed",
		"payload_bits":    len(bits),
		"capacity":        capacity,
		"frames_modified": len(modified),
	}).Info("Payload embedded")

	return modified, nil
}
