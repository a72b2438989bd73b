package video

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is a lossless still-image container for frames.
type Format string

const (
	// FormatPNG stores frames as PNG.
	FormatPNG Format = "png"
	// FormatBMP stores frames as uncompressed BMP.
	FormatBMP Format = "bmp"
)

// ErrUnsupportedFormat indicates an image container other than PNG or BMP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var (
	pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	bmpMagic = []byte{'B', 'M'}
)

// ParseFormat parses "png" or "bmp".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatBMP:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for the format, with the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// DecodeFrame reads a PNG or BMP image, detected by its magic bytes.
func DecodeFrame(r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(pngMagic))
	if err != nil && len(head) < len(bmpMagic) {
		return nil, fmt.Errorf("%w: short image header", ErrUnsupportedFormat)
	}

	var img image.Image
	switch {
	case bytes.HasPrefix(head, pngMagic):
		img, err = png.Decode(br)
	case bytes.HasPrefix(head, bmpMagic):
		img, err = bmp.Decode(br)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FrameFromImage(img), nil
}

// EncodeFrame writes f in the given format.
func EncodeFrame(w io.Writer, f *Frame, format Format) error {
	if err := f.Validate(); err != nil {
		return err
	}
	switch format {
	case FormatPNG:
		return png.Encode(w, f.Image())
	case FormatBMP:
		return bmp.Encode(w, f.Image())
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// LoadFrame reads a frame image from path.
func LoadFrame(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame image: %w", err)
	}
	defer file.Close()

	f, err := DecodeFrame(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// SaveFrame writes f to path through a temporary file and a rename, so a
// reader never sees a partially written image.
func SaveFrame(path string, f *Frame, format Format) error {
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, f, format); err != nil {
		return err
	}

	tmpFile := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
