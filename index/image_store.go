package index

import (
	"errors"
	"fmt"
	"os"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/bitstream"
	"github.com/opd-ai/vidstego/checksum"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/sirupsen/logrus"
)

// SubkeyLabel binds the index encryption key to its purpose.
const SubkeyLabel = "frame-index"

// ImageStoreConfig configures an ImageStore.
type ImageStoreConfig struct {
	// Path is the index image artifact. Put writes it as PNG; Get reads it.
	Path string
	// Cover is the PNG or BMP image the selection is hidden in. Only Put
	// needs it.
	Cover string
	// Key is the message key. The index is sealed under a subkey of it.
	Key crypto.Key
	// Suite is the cipher suite. The zero value is AES-256-GCM.
	Suite crypto.Suite
	// Plan maps index bits onto the cover. Zero means every R, G, B slot.
	Plan video.Plan
}

// ImageStore hides an encrypted frame selection in the least-significant bits
// of a lossless still image.
type ImageStore struct {
	path  string
	cover string
	key   crypto.Key
	suite crypto.Suite
	plan  video.Plan
	codec *bitstream.Codec
}

// NewImageStore validates cfg and derives the index subkey.
func NewImageStore(cfg ImageStoreConfig) (*ImageStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("index image path cannot be empty")
	}
	if cfg.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero key", crypto.ErrInvalidKey)
	}
	if err := cfg.Plan.Validate(); err != nil {
		return nil, err
	}

	codec, err := bitstream.NewCodec(bitstream.LayoutFor(cfg.Suite))
	if err != nil {
		return nil, err
	}

	subkey, err := crypto.DeriveSubkey(cfg.Key, SubkeyLabel)
	if err != nil {
		return nil, err
	}

	return &ImageStore{
		path:  cfg.Path,
		cover: cfg.Cover,
		key:   subkey,
		suite: cfg.Suite,
		plan:  cfg.Plan,
		codec: codec,
	}, nil
}

// Path returns the index image path.
func (s *ImageStore) Path() string {
	return s.path
}

// Put seals sel, hides it in the cover image and writes the result to the
// index path atomically.
func (s *ImageStore) Put(sel video.Selection) error {
	logger := logrus.WithFields(logrus.Fields{
		"function": "ImageStore.Put",
		"path":     s.path,
		"count":    len(sel),
	})

	if s.cover == "" {
		return ErrNoCover
	}

	record, err := EncodeSelection(sel)
	if err != nil {
		return err
	}

	pkg, err := crypto.EncryptWithSuite(record, s.key, s.suite)
	if err != nil {
		return fmt.Errorf("failed to seal frame index: %w", err)
	}
	bits, err := s.codec.Serialize(pkg, checksum.Compute(record))
	if err != nil {
		return err
	}

	frame, err := video.LoadFrame(s.cover)
	if err != nil {
		return fmt.Errorf("failed to load cover image: %w", err)
	}
	if _, err := s.plan.Embed([]*video.Frame{frame}, bits); err != nil {
		logger.WithError(err).Error("Frame index does not fit in cover image")
		return err
	}

	if err := video.SaveFrame(s.path, frame, video.FormatPNG); err != nil {
		return fmt.Errorf("failed to write index image: %w", err)
	}

	logger.WithField("payload_bits", len(bits)).Info("Frame index stored")
	return nil
}

// Get recovers the selection from the index image. Decryption failures are
// returned as crypto.ErrAuthentication.
func (s *ImageStore) Get() (video.Selection, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "ImageStore.Get",
		"path":     s.path,
	})

	frame, err := video.LoadFrame(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNoIndex, err)
		}
		return nil, err
	}

	bits, err := s.plan.Extract([]*video.Frame{frame})
	if err != nil {
		return nil, err
	}
	pkg, digest, err := s.codec.Deserialize(bits)
	if err != nil {
		return nil, err
	}

	record, err := crypto.DecryptWithSuite(pkg, s.key, s.suite)
	if err != nil {
		logger.WithError(err).Error("Frame index failed authentication")
		return nil, err
	}
	if checksum.Check(record, digest) != checksum.StatusVerified {
		logger.Warn("Frame index checksum mismatch")
	}

	sel, err := DecodeSelection(record)
	if err != nil {
		return nil, err
	}

	logger.WithField("count", len(sel)).Debug("Frame index loaded")
	return sel, nil
}
