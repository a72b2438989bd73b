package vidstego

import (
	"context"
	"fmt"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/bitstream"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/sirupsen/logrus"
)

// Options configures a Pipeline. Both sides of a transfer must use the same
// suite and plan.
type Options struct {
	// Suite is the AEAD used to seal the message.
	Suite crypto.Suite
	// Plan maps payload bits onto frame slots.
	Plan video.Plan
}

// NewOptions returns AES-256-GCM over every R, G and B slot.
func NewOptions() *Options {
	return &Options{
		Suite: crypto.SuiteAES256GCM,
		Plan:  video.DefaultPlan(),
	}
}

// FrameReader gives read access to decoded video frames by index.
type FrameReader interface {
	FrameCount() int
	ReadFrame(i int) (*video.Frame, error)
}

// Carrier is a FrameReader whose frames can be replaced and re-encoded into
// an output video.
type Carrier interface {
	FrameReader
	WriteFrame(i int, f *video.Frame) error
	// Remux writes the output video. It must not create output on failure.
	Remux(ctx context.Context, output string) error
}

// Pipeline runs the encode and decode flows.
type Pipeline struct {
	options *Options
	codec   *bitstream.Codec
}

// New creates a pipeline. A nil options uses NewOptions.
func New(options *Options) (*Pipeline, error) {
	if options == nil {
		options = NewOptions()
	}
	if err := options.Plan.Validate(); err != nil {
		return nil, err
	}

	codec, err := bitstream.NewCodec(bitstream.LayoutFor(options.Suite))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrUnknownSuite, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"suite":    options.Suite.String(),
		"channels": options.Plan.Channels.String(),
	}).Debug("Pipeline created")

	return &Pipeline{options: options, codec: codec}, nil
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() Options {
	return *p.options
}

// CapacityReport describes how much a selection can carry.
type CapacityReport struct {
	Selection    video.Selection
	Bits         int
	MaxPlaintext int
}

// Capacity reads every selected frame and reports the payload bits they hold
// and the largest plaintext that fits under the pipeline's cipher suite.
func (p *Pipeline) Capacity(reader FrameReader, source Source) (*CapacityReport, error) {
	sel, err := resolve(reader, source)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, idx := range sel {
		f, err := reader.ReadFrame(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", idx, err)
		}
		total += p.options.Plan.FrameCapacity(f)
	}

	return &CapacityReport{
		Selection:    sel,
		Bits:         total,
		MaxPlaintext: p.codec.Layout().MaxPlaintext(total),
	}, nil
}
