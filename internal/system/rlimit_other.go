//go:build !linux && !darwin

package system

import "github.com/rs/zerolog"

func RaiseFileLimit(uint64, zerolog.Logger) {}
