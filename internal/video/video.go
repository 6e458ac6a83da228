// Package video runs ffmpeg over a compiled argument list.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/rs/zerolog"
)

type Encoder interface {
	Encode(ctx context.Context, args []string) error
}

// FFmpegEncoder executes Binary with the given arguments, unchanged.
type FFmpegEncoder struct {
	Binary string
	Logger zerolog.Logger
}

func NewFFmpegEncoder(binary string, logger zerolog.Logger) *FFmpegEncoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegEncoder{Binary: binary, Logger: logger}
}

func (e *FFmpegEncoder) Encode(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.Logger.Debug().Str("binary", e.Binary).Strs("args", args).Msg("running ffmpeg")
	start := time.Now()
	err := cmd.Run()
	if err == nil {
		e.Logger.Debug().Dur("took", time.Since(start)).Msg("ffmpeg done")
		return nil
	}

	perr := &ProcessError{
		Args:     append([]string{e.Binary}, args...),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		perr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		perr.Err = ctxErr
	}
	return perr
}

// ProcessError reports a failed ffmpeg run. It is never retried.
type ProcessError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

// stderrTail is how many trailing stderr lines Error includes.
const stderrTail = 3

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d: %v", e.Args[0], e.ExitCode, e.Err)
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	if len(lines) > stderrTail {
		lines = lines[len(lines)-stderrTail:]
	}
	if tail := strings.TrimSpace(strings.Join(lines, "\n")); tail != "" {
		msg += "\n" + tail
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

func (e *ProcessError) Is(target error) bool { return target == errdefs.ErrExternalProcess }
