//go:build !linux

package pps

import (
	"errors"
	"time"
)

// Stub implementation for platforms without the GPIO character device.
func openLine(chip string, line int, onPulse func(time.Time)) (ppsLine, error) {
	return nil, errors.New("pps: gpio events unsupported on this platform")
}

var openLineFn = openLine
