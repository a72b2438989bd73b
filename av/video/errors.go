package video

import "errors"

var (
	// ErrCapacity indicates the payload does not fit in the selected frames.
	// It is returned before any frame is modified.
	ErrCapacity = errors.New("insufficient embedding capacity")

	// ErrInvalidSelection indicates a frame selection with an out of range or
	// duplicate index, or an unparseable selection spec.
	ErrInvalidSelection = errors.New("invalid frame selection")

	// ErrInvalidFrame indicates a frame whose buffer does not match its
	// declared dimensions.
	ErrInvalidFrame = errors.New("invalid frame")
)
