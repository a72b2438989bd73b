package index

import (
	"fmt"

	"github.com/opd-ai/vidstego/av/video"
)

// Source is where the frame selection comes from. The variants are Manual,
// FromStore and ScanAll.
type Source interface {
	// Resolve produces a selection validated against frameCount.
	Resolve(frameCount int) (video.Selection, error)

	isSource()
}

// Manual is a selection given directly by the operator.
type Manual struct {
	Frames video.Selection
}

// FromStore loads the selection from a Store.
type FromStore struct {
	Store Store
}

// ScanAll selects every frame in order.
type ScanAll struct{}

func (Manual) isSource()    {}
func (FromStore) isSource() {}
func (ScanAll) isSource()   {}

// Resolve validates the operator list.
func (m Manual) Resolve(frameCount int) (video.Selection, error) {
	if err := m.Frames.Validate(frameCount); err != nil {
		return nil, err
	}
	return m.Frames.Clone(), nil
}

// Resolve loads and validates the stored selection.
func (s FromStore) Resolve(frameCount int) (video.Selection, error) {
	if s.Store == nil {
		return nil, ErrNoIndex
	}
	sel, err := s.Store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load frame index: %w", err)
	}
	if err := sel.Validate(frameCount); err != nil {
		return nil, err
	}
	return sel, nil
}

// Resolve returns every frame index.
func (ScanAll) Resolve(frameCount int) (video.Selection, error) {
	if frameCount <= 0 {
		return nil, fmt.Errorf("%w: video has no frames", video.ErrInvalidSelection)
	}
	return video.All(frameCount), nil
}
