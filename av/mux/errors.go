package mux

import "errors"

var (
	// ErrToolNotFound indicates ffmpeg or ffprobe is not installed.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrToolFailed indicates an external tool exited with an error.
	ErrToolFailed = errors.New("external tool failed")

	// ErrNoVideoStream indicates the input has no decodable video stream.
	ErrNoVideoStream = errors.New("no video stream")

	// ErrNoFrames indicates frame extraction produced no images.
	ErrNoFrames = errors.New("no frames extracted")

	// ErrFrameIndex indicates a frame index outside the extracted range.
	ErrFrameIndex = errors.New("frame index out of range")

	// ErrClosed indicates use of a workspace after Close.
	ErrClosed = errors.New("workspace closed")
)
