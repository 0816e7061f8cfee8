//go:build linux

package stream

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// openSerial opens path as a raw 38400 8N1 serial port. Reads return within
// 3 seconds even when the device is silent (VMIN=0, VTIME=30), so a dead
// receiver cannot hang the decode loop.
func openSerial(path string) (io.ReadCloser, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}
	if err := configureRaw(fd); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	f := os.NewFile(uintptr(fd), path)
	if f == nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("os.NewFile failed")
	}
	return &serialPort{f: f}, nil
}

// configureRaw puts fd into raw 8N1 mode at 38400 baud with bounded
// reads: return whatever has arrived, or nothing after 3 seconds.
func configureRaw(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	// UBX is binary; any line processing corrupts it.
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.B38400
	t.Ispeed = unix.B38400
	t.Ospeed = unix.B38400

	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 30

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

// serialPort converts the zero-byte timeout read, which os.File surfaces as
// io.EOF, into errNoData. A serial device never has a true end of stream.
type serialPort struct {
	f *os.File
}

func (p *serialPort) Read(b []byte) (int, error) {
	n, err := p.f.Read(b)
	if n == 0 && err == io.EOF {
		return 0, errNoData
	}
	return n, err
}

func (p *serialPort) Close() error { return p.f.Close() }
