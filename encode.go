package vidstego

import (
	"context"
	"fmt"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/checksum"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/opd-ai/vidstego/index"
	"github.com/opd-ai/vidstego/limits"
	"github.com/sirupsen/logrus"
)

// EncodeConfig is the input of one encode run.
type EncodeConfig struct {
	Plaintext []byte
	Key       crypto.Key
	// Source selects the carrier frames, usually index.Manual or
	// index.ScanAll.
	Source Source
	// PersistIndices stores the resolved selection in Store after the
	// output video has been written.
	PersistIndices bool
	Store          index.Store
	Output         string
}

// EncodeReport describes a completed encode run.
type EncodeReport struct {
	Selection   video.Selection
	PayloadBits int
	// Capacity is the combined capacity of the frames read to place the
	// payload.
	Capacity int
	// FramesModified lists the video frame indices that received bits.
	FramesModified []int
	IndexStored    bool
}

// Encode seals cfg.Plaintext and embeds it into the selected frames of
// carrier, then remuxes into cfg.Output. Frames are read in selection order
// only until the payload fits, and capacity is checked before any frame is
// written. The index is persisted only after the remux succeeded.
func (p *Pipeline) Encode(ctx context.Context, carrier Carrier, cfg EncodeConfig) (*EncodeReport, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function":       "Pipeline.Encode",
		"output":         cfg.Output,
		"plaintext_size": len(cfg.Plaintext),
	})

	if err := limits.ValidatePlaintext(cfg.Plaintext); err != nil {
		return nil, err
	}
	if cfg.PersistIndices && cfg.Store == nil {
		return nil, ErrNoStore
	}

	sel, err := resolve(carrier, cfg.Source)
	if err != nil {
		logger.WithError(err).Error("Frame selection rejected")
		return nil, err
	}

	pkg, err := crypto.EncryptWithSuite(cfg.Plaintext, cfg.Key, p.options.Suite)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message: %w", err)
	}
	bits, err := p.codec.Serialize(pkg, checksum.Compute(cfg.Plaintext))
	if err != nil {
		return nil, err
	}

	plan := p.options.Plan
	frames := make([]*video.Frame, 0, len(sel))
	capacity := 0
	for _, idx := range sel {
		if capacity >= len(bits) {
			break
		}
		f, err := carrier.ReadFrame(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", idx, err)
		}
		frames = append(frames, f)
		capacity += plan.FrameCapacity(f)
	}

	positions, err := plan.Embed(frames, bits)
	if err != nil {
		logger.WithError(err).Error("Embedding failed")
		return nil, err
	}

	modified := make([]int, 0, len(positions))
	for _, pos := range positions {
		idx := sel[pos]
		if err := carrier.WriteFrame(idx, frames[pos]); err != nil {
			return nil, fmt.Errorf("failed to write frame %d: %w", idx, err)
		}
		modified = append(modified, idx)
	}

	if err := carrier.Remux(ctx, cfg.Output); err != nil {
		logger.WithError(err).Error("Remux failed, index not persisted")
		return nil, err
	}

	report := &EncodeReport{
		Selection:      sel,
		PayloadBits:    len(bits),
		Capacity:       capacity,
		FramesModified: modified,
	}

	if cfg.PersistIndices {
		if err := cfg.Store.Put(sel); err != nil {
			return nil, fmt.Errorf("output written but frame index not stored: %w", err)
		}
		report.IndexStored = true
	}

	logger.WithFields(logrus.Fields{
		"payload_bits":    report.PayloadBits,
		"frames_selected": len(sel),
		"frames_modified": len(modified),
		"index_stored":    report.IndexStored,
	}).Info("Message encoded")

	return report, nil
}
