package video

import (
	"fmt"
	"strings"
)

// ChannelMask selects the color channels that carry payload bits.
type ChannelMask uint8

const (
	// RMode enables the red channel.
	RMode ChannelMask = 1 << iota
	// GMode enables the green channel.
	GMode
	// BMode enables the blue channel.
	BMode

	// RGBMode enables all three color channels.
	RGBMode = RMode | GMode | BMode
)

// channels lists the enabled sample offsets within a pixel, in R, G, B order.
func (m ChannelMask) channels() []int {
	var out []int
	for i, mode := range []ChannelMask{RMode, GMode, BMode} {
		if m&mode != 0 {
			out = append(out, i)
		}
	}
	return out
}

// String renders the mask as letters, e.g. "rgb" or "gb".
func (m ChannelMask) String() string {
	var sb strings.Builder
	for i, c := range "rgb" {
		if m&(1<<uint(i)) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// ParseChannels parses a mask made of the letters r, g and b in any order.
func ParseChannels(s string) (ChannelMask, error) {
	var m ChannelMask
	for _, c := range strings.ToLower(strings.TrimSpace(s)) {
		var bit ChannelMask
		switch c {
		case 'r':
			bit = RMode
		case 'g':
			bit = GMode
		case 'b':
			bit = BMode
		default:
			return 0, fmt.Errorf("invalid channel %q in %q", c, s)
		}
		if m&bit != 0 {
			return 0, fmt.Errorf("channel %q repeated in %q", c, s)
		}
		m |= bit
	}
	if m == 0 {
		return 0, fmt.Errorf("empty channel mask")
	}
	return m, nil
}

// Plan describes how payload bits map onto frame slots. Both sides of a
// transfer must use the same plan.
type Plan struct {
	// Channels selects the carrier channels. Zero means RGBMode.
	Channels ChannelMask
	// MaxBitsPerFrame caps the slots used in each frame. Zero means every slot.
	MaxBitsPerFrame int
}

// DefaultPlan uses every R, G and B slot of every frame.
func DefaultPlan() Plan {
	return Plan{Channels: RGBMode}
}

func (p Plan) mask() ChannelMask {
	if p.Channels&RGBMode == 0 {
		return RGBMode
	}
	return p.Channels & RGBMode
}

// Validate rejects negative per-frame caps.
func (p Plan) Validate() error {
	if p.MaxBitsPerFrame < 0 {
		return fmt.Errorf("max bits per frame cannot be negative: %d", p.MaxBitsPerFrame)
	}
	return nil
}

// FrameCapacity returns the number of payload bits f can carry.
func (p Plan) FrameCapacity(f *Frame) int {
	n := f.Width * f.Height * len(p.mask().channels())
	if p.MaxBitsPerFrame > 0 && n > p.MaxBitsPerFrame {
		n = p.MaxBitsPerFrame
	}
	return n
}

// Capacity returns the total payload bits the frames can carry.
func (p Plan) Capacity(frames []*Frame) int {
	total := 0
	for _, f := range frames {
		total += p.FrameCapacity(f)
	}
	return total
}

// slotOffset maps a slot number within a frame to its byte offset in Pix.
func slotOffset(f *Frame, chans []int, slot int) int {
	return (slot/len(chans))*f.Channels + chans[slot%len(chans)]
}

func validateFrames(frames []*Frame) error {
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("frame at position %d: %w", i, err)
		}
	}
	return nil
}
