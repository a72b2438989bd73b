package mux

import (
	"fmt"

	"github.com/opd-ai/vidstego/av/video"
)

// Config selects the external tools and the intermediate formats.
type Config struct {
	FFmpeg  string
	FFprobe string
	// VideoCodec is the ffmpeg encoder used to rebuild the video. It must be
	// lossless or the embedded bits are destroyed.
	VideoCodec string
	// FrameFormat is the image container for extracted frames.
	FrameFormat video.Format
	// WorkDir is the parent of the temporary workspace. Empty means the
	// system temporary directory.
	WorkDir string
}

// DefaultConfig rebuilds with the png codec from PNG frames.
func DefaultConfig() Config {
	return Config{
		FFmpeg:      "ffmpeg",
		FFprobe:     "ffprobe",
		VideoCodec:  "png",
		FrameFormat: video.FormatPNG,
	}
}

// LosslessCodecs lists the encoders known to preserve every sample of an
// rgb24 frame.
var LosslessCodecs = map[string]bool{
	"png":      true,
	"ffv1":     true,
	"qtrle":    true,
	"rawvideo": true,
}

// Validate rejects empty tool names, unknown frame formats and lossy codecs.
func (c Config) Validate() error {
	if c.FFmpeg == "" || c.FFprobe == "" {
		return fmt.Errorf("ffmpeg and ffprobe paths cannot be empty")
	}
	if _, err := video.ParseFormat(string(c.FrameFormat)); err != nil {
		return err
	}
	if !LosslessCodecs[c.VideoCodec] {
		return fmt.Errorf("video codec %q is not a known lossless codec", c.VideoCodec)
	}
	return nil
}

// pixFmt is the pixel format ffmpeg writes extracted frames in.
func (c Config) pixFmt() string {
	if c.FrameFormat == video.FormatBMP {
		return "bgr24"
	}
	return "rgb24"
}
