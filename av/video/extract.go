package video

import (
	"fmt"

	"github.com/opd-ai/vidstego/bitstream"
	"github.com/sirupsen/logrus"
)

// ExtractFrame reads the least-significant bits of the first n slots of f
// in traversal order. n is clamped to the frame's capacity.
func (p Plan) ExtractFrame(f *Frame, n int) bitstream.Bits {
	return p.extractRange(f, 0, n)
}

func (p Plan) extractRange(f *Frame, from, n int) bitstream.Bits {
	if limit := p.FrameCapacity(f) - from; n > limit {
		n = limit
	}
	if n <= 0 {
		return nil
	}

	chans := p.mask().channels()
	bits := make(bitstream.Bits, n)
	for k := 0; k < n; k++ {
		bits[k] = f.Pix[slotOffset(f, chans, from+k)] & 1
	}
	return bits
}

// Extractor recovers a payload one frame at a time, so callers can stop
// loading frames as soon as the payload is complete.
type Extractor struct {
	plan  Plan
	out   bitstream.Bits
	need  int
	known bool
}

// NewExtractor starts an extraction using p.
func (p Plan) NewExtractor() *Extractor {
	return &Extractor{
		plan: p,
		out:  make(bitstream.Bits, 0, bitstream.HeaderBits),
		need: bitstream.HeaderBits,
	}
}

// Feed reads the next frame in selection order. It reads the length prefix
// first and afterwards only as many bits as the prefix declares. It reports
// true once the payload is complete; further frames are ignored.
func (e *Extractor) Feed(f *Frame) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}

	offset := 0
	frameCap := e.plan.FrameCapacity(f)
	for len(e.out) < e.need && offset < frameCap {
		chunk := e.plan.extractRange(f, offset, e.need-len(e.out))
		e.out = append(e.out, chunk...)
		offset += len(chunk)

		if !e.known && len(e.out) == bitstream.HeaderBits {
			total, err := bitstream.TotalBits(e.out)
			if err != nil {
				return false, err
			}
			e.need = total
			e.known = true
		}
	}
	return e.Done(), nil
}

// Declared returns the payload length in bits announced by the prefix, and
// whether the prefix has been read yet.
func (e *Extractor) Declared() (int, bool) {
	return e.need, e.known
}

// Done reports whether the whole payload has been read.
func (e *Extractor) Done() bool {
	return e.known && len(e.out) == e.need
}

// Bits returns the payload. It fails with bitstream.ErrFormat if the frames
// fed so far did not hold the whole declared payload.
func (e *Extractor) Bits() (bitstream.Bits, error) {
	if !e.Done() {
		return nil, fmt.Errorf("%w: recovered %d of %d bits", bitstream.ErrFormat, len(e.out), e.need)
	}
	return e.out, nil
}

// Extract reads a payload from frames in order. It first reads the length
// prefix, then exactly the number of bits the prefix declares, and never reads
// past the end of the payload. A prefix declaring more bits than the frames
// can hold is reported as bitstream.ErrFormat.
func (p Plan) Extract(frames []*Frame) (bitstream.Bits, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateFrames(frames); err != nil {
		return nil, err
	}

	capacity := p.Capacity(frames)
	if capacity < bitstream.HeaderBits {
		return nil, fmt.Errorf("%w: frames hold %d bits, fewer than the %d bit length prefix",
			bitstream.ErrFormat, capacity, bitstream.HeaderBits)
	}

	e := p.NewExtractor()
	for pos, f := range frames {
		done, err := e.Feed(f)
		if err != nil {
			return nil, err
		}
		if need, known := e.Declared(); known && need > capacity {
			logrus.WithFields(logrus.Fields{
				"function":      "Plan.Extract",
				"declared_bits": need,
				"capacity":      capacity,
			}).Warn("Length prefix exceeds frame capacity")
			return nil, fmt.Errorf("%w: length prefix declares %d bits, frames hold %d",
				bitstream.ErrFormat, need, capacity)
		}

		logrus.WithFields(logrus.Fields{
			"function": "Plan.Extract",
			"position": pos,
		}).Debug("Frame extracted")

		if done {
			break
		}
	}

	bits, err := e.Bits()
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Plan.Extract",
		"payload_bits": len(bits),
	}).Info("Payload extracted")

	return bits, nil
}
