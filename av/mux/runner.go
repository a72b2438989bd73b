package mux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxStderr bounds the tool output carried in an error.
const maxStderr = 2048

// Runner runs an external tool to completion and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools as child processes.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit is reported as ErrToolFailed
// with the tail of the tool's stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logrus.WithFields(logrus.Fields{
		"function": "ExecRunner.Run",
		"tool":     name,
		"args":     strings.Join(args, " "),
	}).Debug("Running external tool")

	path, err := ResolveTool(name)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s interrupted: %w", name, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrToolFailed, name, err, tail(stderr.String(), maxStderr))
	}
	return stdout.Bytes(), nil
}

// ResolveTool finds prog on PATH. A binary in the working directory is
// accepted.
func ResolveTool(prog string) (string, error) {
	path, err := exec.LookPath(prog)
	if errors.Is(err, exec.ErrDot) {
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, prog)
	}
	return path, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
