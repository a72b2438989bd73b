package vidstego

import (
	"fmt"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/checksum"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/sirupsen/logrus"
)

// DecodeConfig is the input of one decode run.
type DecodeConfig struct {
	Key    crypto.Key
	Source Source
}

// DecodeResult is an authenticated message and its advisory checksum status.
type DecodeResult struct {
	Plaintext []byte
	Integrity checksum.Status
	Selection video.Selection
}

// Decode recovers a message from the selected frames of reader. Frames are
// read in selection order until the payload declared by the length prefix is
// complete. Any failure aborts the run; plaintext is only returned after
// authentication succeeded.
func (p *Pipeline) Decode(reader FrameReader, cfg DecodeConfig) (*DecodeResult, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Pipeline.Decode",
	})

	sel, err := resolve(reader, cfg.Source)
	if err != nil {
		logger.WithError(err).Error("Frame selection rejected")
		return nil, err
	}

	plan := p.options.Plan
	e := plan.NewExtractor()
	read := 0
	for pos, idx := range sel {
		f, err := reader.ReadFrame(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", idx, err)
		}
		done, err := e.Feed(f)
		if err != nil {
			return nil, err
		}
		read += plan.FrameCapacity(f)

		// Frames of one video share a geometry, so the remaining frames
		// hold as much as this one.
		if need, known := e.Declared(); known {
			if bound := read + (len(sel)-pos-1)*plan.FrameCapacity(f); need > bound {
				return nil, fmt.Errorf("%w: length prefix declares %d bits, selection holds %d",
					ErrFormat, need, bound)
			}
		}
		if done {
			break
		}
	}

	bits, err := e.Bits()
	if err != nil {
		return nil, err
	}
	pkg, digest, err := p.codec.Deserialize(bits)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.DecryptWithSuite(pkg, cfg.Key, p.options.Suite)
	if err != nil {
		logger.WithError(err).Error("Message failed authentication")
		return nil, err
	}

	status := checksum.Check(plaintext, digest)
	if status != checksum.StatusVerified {
		logger.Warn("Checksum mismatch on authenticated message")
	}

	logger.WithFields(logrus.Fields{
		"payload_bits":   len(bits),
		"plaintext_size": len(plaintext),
		"integrity":      status.String(),
	}).Info("Message decoded")

	return &DecodeResult{
		Plaintext: plaintext,
		Integrity: status,
		Selection: sel,
	}, nil
}
