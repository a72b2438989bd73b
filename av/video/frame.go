package video

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Frame is an 8-bit interleaved pixel buffer in row-major order.
type Frame struct {
	Width    int
	Height   int
	Channels int    // samples per pixel: 3 (RGB) or 4 (RGBA)
	Pix      []byte // len == Width*Height*Channels
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height, channels int) *Frame {
	return &Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Validate checks that the buffer matches the declared geometry.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if f.Channels != 3 && f.Channels != 4 {
		return fmt.Errorf("%w: %d channels, want 3 or 4", ErrInvalidFrame, f.Channels)
	}
	if want := f.Width * f.Height * f.Channels; len(f.Pix) != want {
		return fmt.Errorf("%w: buffer holds %d bytes, want %d", ErrInvalidFrame, len(f.Pix), want)
	}
	return nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Width:    f.Width,
		Height:   f.Height,
		Channels: f.Channels,
		Pix:      append([]byte(nil), f.Pix...),
	}
}

// Equal reports whether two frames have the same geometry and pixels.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Width == other.Width && f.Height == other.Height &&
		f.Channels == other.Channels && bytes.Equal(f.Pix, other.Pix)
}

// FrameFromImage converts img into a 3-channel RGB frame. Alpha is dropped.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), 3)

	switch src := img.(type) {
	case *image.RGBA:
		copyRGB(f, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride)
	case *image.NRGBA:
		copyRGB(f, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride)
	default:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.R, c.G, c.B
				i += 3
			}
		}
	}
	return f
}

// copyRGB copies the RGB samples of a 4-byte-per-pixel buffer starting at the
// frame origin.
func copyRGB(f *Frame, pix []byte, stride int) {
	i := 0
	for y := 0; y < f.Height; y++ {
		row := pix[y*stride : y*stride+f.Width*4]
		for x := 0; x < f.Width; x++ {
			f.Pix[i] = row[x*4]
			f.Pix[i+1] = row[x*4+1]
			f.Pix[i+2] = row[x*4+2]
			i += 3
		}
	}
}

// Image returns the frame as an *image.NRGBA. 3-channel frames are opaque.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for p := 0; p < f.Width*f.Height; p++ {
		src := f.Pix[p*f.Channels:]
		dst := img.Pix[p*4:]
		dst[0], dst[1], dst[2] = src[0], src[1], src[2]
		if f.Channels == 4 {
			dst[3] = src[3]
		} else {
			dst[3] = 0xFF
		}
	}
	return img
}
