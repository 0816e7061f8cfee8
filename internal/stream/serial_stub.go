//go:build !linux

package stream

import (
	"fmt"
	"io"
)

func openSerial(path string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("serial input not supported on this platform")
}
