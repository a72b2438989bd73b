package mux

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/opd-ai/vidstego/av/video"
	"github.com/sirupsen/logrus"
)

// framePattern names extracted frames; numbering starts at 0.
const framePattern = "%06d"

// Workspace holds the extracted frames of one input video.
type Workspace struct {
	mu sync.Mutex

	id        string
	dir       string
	framesDir string
	input     string
	cfg       Config
	runner    Runner
	info      *StreamInfo
	count     int
	written   map[int]struct{}
	closed    bool
}

// Open probes input and extracts all of its frames into a new workspace
// under cfg.WorkDir. The workspace is removed again if extraction fails.
func Open(ctx context.Context, runner Runner, input string, cfg Config) (*Workspace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = ExecRunner{}
	}

	info, err := Probe(ctx, runner, cfg.FFprobe, input)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	dir, err := os.MkdirTemp(cfg.WorkDir, "vidstego-"+id+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	ws := &Workspace{
		id:        id,
		dir:       dir,
		framesDir: filepath.Join(dir, "frames"),
		input:     input,
		cfg:       cfg,
		runner:    runner,
		info:      info,
		written:   make(map[int]struct{}),
	}

	if err := ws.extract(ctx); err != nil {
		ws.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "mux.Open",
		"workspace":  id,
		"input":      input,
		"frames":     ws.count,
		"frame_rate": info.FrameRate,
		"has_audio":  info.HasAudio,
	}).Info("Frames extracted")

	return ws, nil
}

func (w *Workspace) extract(ctx context.Context) error {
	if err := os.Mkdir(w.framesDir, 0o700); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}

	_, err := w.runner.Run(ctx, w.cfg.FFmpeg,
		"-hide_banner", "-loglevel", "error",
		"-i", w.input,
		"-map", "0:v:0",
		"-vsync", "0",
		"-pix_fmt", w.cfg.pixFmt(),
		"-start_number", "0",
		w.pattern(),
	)
	if err != nil {
		return fmt.Errorf("failed to extract frames: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(w.framesDir, "*"+w.cfg.FrameFormat.Ext()))
	if err != nil {
		return err
	}
	for i := range matches {
		if _, err := os.Stat(w.framePath(i)); err != nil {
			return fmt.Errorf("%w: frame files are not numbered contiguously from 0", ErrNoFrames)
		}
	}
	if len(matches) == 0 {
		return ErrNoFrames
	}

	w.count = len(matches)
	return nil
}

func (w *Workspace) pattern() string {
	return filepath.Join(w.framesDir, framePattern+w.cfg.FrameFormat.Ext())
}

func (w *Workspace) framePath(i int) string {
	return fmt.Sprintf(w.pattern(), i)
}

// ID returns the run identifier used in the workspace directory name.
func (w *Workspace) ID() string {
	return w.id
}

// Info returns the probed stream description.
func (w *Workspace) Info() StreamInfo {
	return *w.info
}

// FrameCount returns the number of extracted frames.
func (w *Workspace) FrameCount() int {
	return w.count
}

// ReadFrame decodes frame i.
func (w *Workspace) ReadFrame(i int) (*video.Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(i); err != nil {
		return nil, err
	}
	return video.LoadFrame(w.framePath(i))
}

// WriteFrame replaces frame i. The frame must keep the original dimensions.
func (w *Workspace) WriteFrame(i int, f *video.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(i); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if w.info.Width > 0 && (f.Width != w.info.Width || f.Height != w.info.Height) {
		return fmt.Errorf("%w: frame %d is %dx%d, video is %dx%d",
			video.ErrInvalidFrame, i, f.Width, f.Height, w.info.Width, w.info.Height)
	}

	if err := video.SaveFrame(w.framePath(i), f, w.cfg.FrameFormat); err != nil {
		return err
	}
	w.written[i] = struct{}{}
	return nil
}

func (w *Workspace) check(i int) error {
	if w.closed {
		return ErrClosed
	}
	if i < 0 || i >= w.count {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameIndex, i, w.count)
	}
	return nil
}

// Remux rebuilds the video from the workspace frames and the original audio
// and moves it to output. The output path is only touched after ffmpeg
// succeeds.
func (w *Workspace) Remux(ctx context.Context, output string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if filepath.Ext(output) == "" {
		return fmt.Errorf("output %q needs a file extension to select the container", output)
	}

	logger := logrus.WithFields(logrus.Fields{
		"function":       "Workspace.Remux",
		"workspace":      w.id,
		"output":         output,
		"frames_written": len(w.written),
	})

	// The temporary file shares the output's directory so the final rename
	// stays on one filesystem, and its extension so ffmpeg picks the muxer.
	tmp := filepath.Join(filepath.Dir(output), "."+w.id+filepath.Ext(output))

	_, err := w.runner.Run(ctx, w.cfg.FFmpeg,
		"-y", "-hide_banner", "-loglevel", "error",
		"-framerate", w.info.FrameRate,
		"-start_number", "0",
		"-i", w.pattern(),
		"-i", w.input,
		"-map", "0:v:0",
		"-map", "1:a?",
		"-c:v", w.cfg.VideoCodec,
		"-c:a", "copy",
		tmp,
	)
	if err != nil {
		os.Remove(tmp)
		logger.WithError(err).Error("Remux failed")
		return fmt.Errorf("failed to rebuild video: %w", err)
	}

	if err := os.Rename(tmp, output); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move rebuilt video into place: %w", err)
	}

	logger.Info("Video rebuilt")
	return nil
}

// Close removes the workspace directory. It is safe to call more than once.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}
	return nil
}
