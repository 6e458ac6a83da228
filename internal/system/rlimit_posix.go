//go:build linux || darwin

package system

import (
	"syscall"

	"github.com/rs/zerolog"
)

// RaiseFileLimit lifts the soft open-file limit to at least want, capped
// by the hard limit. ffmpeg inherits it and keeps every input open at once.
func RaiseFileLimit(want uint64, logger zerolog.Logger) {
	var lim syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		logger.Warn().Err(err).Msg("cannot read open file limit")
		return
	}
	if lim.Cur >= want {
		return
	}

	lim.Cur = min(want, lim.Max)
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		logger.Warn().Err(err).Msg("cannot raise open file limit")
		return
	}
	logger.Debug().Uint64("limit", lim.Cur).Msg("open file limit raised")
}
