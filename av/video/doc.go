// Package video embeds payload bits into the least-significant bits of video
// frames and reads them back.
//
// # Frames
//
// A [Frame] is an 8-bit, interleaved, row-major pixel buffer with 3 (RGB) or
// 4 (RGBA) samples per pixel, as produced by the frame decode collaborator:
//
//	frame := video.NewFrame(1920, 1080, 3)
//	frame := video.FrameFromImage(img) // any image.Image, converted to RGB
//
// # Slot Traversal
//
// Each enabled color channel of each pixel is one slot carrying one bit. The
// traversal order is a protocol constant shared by embed and extract:
//
//	rows top to bottom → pixels left to right → channels R, G, B
//
// A [Plan] selects which channels are used and may cap the number of slots
// used per frame. Alpha never carries payload bits.
//
// # Frame Selection
//
// Bits are distributed over frames in [Selection] order, filling each frame
// before moving to the next:
//
//	sel, _ := video.ParseSelection("2,3,4")
//	plan := video.DefaultPlan()
//
//	modified, err := plan.Embed(frames, bits)     // frames in sel order
//	if errors.Is(err, video.ErrCapacity) {
//	    // nothing was written
//	}
//
//	bits, err := plan.Extract(frames)
//
// The order of the frames passed to Extract must be the order used at embed
// time. There is no way to detect a reordered selection here; it surfaces as
// [bitstream.ErrFormat] or an authentication failure downstream.
//
// # Thread Safety
//
// Plans are immutable values and safe to share. Frames are not synchronized;
// a frame must not be embedded into from more than one goroutine at a time.
package video
