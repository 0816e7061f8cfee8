//go:build linux

package pps

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// openLine requests rising-edge events on the given chip and line offset
// via the Linux GPIO character device. Each pulse invokes onPulse with
// the receive time.
func openLine(chip string, line int, onPulse func(time.Time)) (ppsLine, error) {
	l, err := gpiocdev.RequestLine(chip, line,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithConsumer("gnssview-pps"),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type != gpiocdev.LineEventRisingEdge {
				return
			}
			onPulse(time.Now().UTC())
		}))
	if err != nil {
		return nil, fmt.Errorf("pps: request %s line %d: %w", chip, line, err)
	}
	return l, nil
}

var openLineFn = openLine
