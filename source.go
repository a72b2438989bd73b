package vidstego

import (
	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/index"
)

// Source is where a frame selection comes from; see index.Manual,
// index.FromStore and index.ScanAll.
type Source = index.Source

func resolve(reader FrameReader, source Source) (video.Selection, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	return source.Resolve(reader.FrameCount())
}
