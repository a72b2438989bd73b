package index

import "errors"

var (
	// ErrNoIndex indicates a store holds no frame selection.
	ErrNoIndex = errors.New("no frame index stored")

	// ErrCorruptIndex indicates an index record that does not decode into a
	// frame selection.
	ErrCorruptIndex = errors.New("corrupt frame index")

	// ErrNoCover indicates an image store was asked to write without a cover
	// image.
	ErrNoCover = errors.New("no cover image configured")
)
