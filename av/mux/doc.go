// Package mux adapts ffmpeg and ffprobe into a frame carrier for the
// embedding pipeline.
//
// A [Workspace] decodes every frame of an input video into numbered lossless
// images inside a private temporary directory, lets the caller read and
// rewrite individual frames, and rebuilds the video with a lossless codec
// while stream-copying the original audio:
//
//	ws, err := mux.Open(ctx, mux.ExecRunner{}, "input.mp4", mux.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer ws.Close()
//
//	frame, err := ws.ReadFrame(3)
//	// ... modify frame ...
//	err = ws.WriteFrame(3, frame)
//	err = ws.Remux(ctx, "output.mov")
//
// Frames that are never written keep their extracted image files untouched,
// so they re-enter the output video bit for bit.
//
// External tools run through a [Runner], which tests replace with a fake.
package mux
