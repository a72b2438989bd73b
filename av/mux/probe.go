package mux

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StreamInfo describes the streams of an input video.
type StreamInfo struct {
	Width     int
	Height    int
	FrameRate string // rational as reported by ffprobe, e.g. "30000/1001"
	Frames    int    // container frame count, 0 if unknown
	HasAudio  bool
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
	} `json:"streams"`
}

// Probe inspects input with ffprobe.
func Probe(ctx context.Context, runner Runner, ffprobe, input string) (*StreamInfo, error) {
	out, err := runner.Run(ctx, ffprobe,
		"-v", "error",
		"-show_streams",
		"-of", "json",
		input,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", input, err)
	}
	return parseProbe(out)
}

func parseProbe(data []byte) (*StreamInfo, error) {
	var po probeOutput
	if err := json.Unmarshal(data, &po); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &StreamInfo{}
	found := false
	for _, s := range po.Streams {
		switch s.CodecType {
		case "video":
			if found {
				continue
			}
			found = true
			info.Width = s.Width
			info.Height = s.Height
			info.FrameRate = s.RFrameRate
			if n, err := strconv.Atoi(s.NbFrames); err == nil {
				info.Frames = n
			}
		case "audio":
			info.HasAudio = true
		}
	}

	if !found {
		return nil, ErrNoVideoStream
	}
	if !validRate(info.FrameRate) {
		return nil, fmt.Errorf("%w: unusable frame rate %q", ErrNoVideoStream, info.FrameRate)
	}
	return info, nil
}

// validRate accepts "N" or "N/D" with positive N and D.
func validRate(rate string) bool {
	num, den, isRatio := strings.Cut(rate, "/")
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return false
	}
	if !isRatio {
		return true
	}
	d, err := strconv.Atoi(den)
	return err == nil && d > 0
}
