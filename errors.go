package vidstego

import (
	"errors"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/bitstream"
	"github.com/opd-ai/vidstego/crypto"
)

// Error taxonomy of the pipeline. Each value is the sentinel of the component
// that detects the condition, so errors.Is works across package boundaries.
var (
	// ErrAuthentication indicates a wrong key, wrong order or tampered data.
	ErrAuthentication = crypto.ErrAuthentication

	// ErrFormat indicates recovered bits that do not parse as a payload.
	ErrFormat = bitstream.ErrFormat

	// ErrCapacity indicates a payload larger than the selected frames hold.
	ErrCapacity = video.ErrCapacity

	// ErrInvalidSelection indicates an empty, duplicate or out of range
	// frame selection.
	ErrInvalidSelection = video.ErrInvalidSelection
)

// ErrNoSource indicates a configuration without a frame selection source.
var ErrNoSource = errors.New("no frame selection source")

// ErrNoStore indicates index persistence was requested without a store.
var ErrNoStore = errors.New("index persistence requested without a store")
