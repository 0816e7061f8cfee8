// Package stream implements the UBX streaming core: it reads a receiver
// byte stream from a serial device or a recorded file, decodes frames, and
// dispatches the messages a consumer asks for. File sources replay with
// configurable pacing and support rewinding; device sources reconnect
// forever on transport failures.
package stream

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"gnssview/internal/ubx"
)

const (
	// EpochIdentity marks the end of a navigation epoch. File replay pacing
	// keys off this message.
	EpochIdentity = "UBX-NAV-PVT"

	// DeviceBaud is the u-blox default for UBX serial output.
	DeviceBaud = 38400

	// fileYield keeps file replay from starving other goroutines between
	// messages.
	fileYield = 10 * time.Millisecond

	deviceRetryDelay = 1 * time.Second
)

// ErrNotFile is returned by ReadMessagesOfType when the source path is not
// an existing regular file.
var ErrNotFile = errors.New("source is not a regular file")

// errNoData marks a device read timeout: the port is healthy but silent.
var errNoData = errors.New("no data within read timeout")

// Consumer receives dispatched messages and steers the loop. RequiredTypes
// is queried fresh for every decoded message and WaitTime fresh for every
// epoch, so both may change while a read is in progress.
//
// Process runs synchronously on the read goroutine and must not block.
type Consumer interface {
	Process(msg *ubx.Message, identity string)
	RequiredTypes() map[string]struct{}
	WaitTime() time.Duration
}

type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Snapshot is a point-in-time view of reader progress for status reporting.
type Snapshot struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	State string `json:"state"`

	Decoded    uint64 `json:"decoded"`
	Dispatched uint64 `json:"dispatched"`
	Skipped    uint64 `json:"skipped"`
	Epochs     uint64 `json:"epochs"`
	Rewinds    uint64 `json:"rewinds"`
	Reopens    uint64 `json:"reopens"`

	LastSkip       string `json:"last_skip,omitempty"`
	LastError      string `json:"last_error,omitempty"`
	LastMessageUTC string `json:"last_message_utc,omitempty"`
}

// Reader streams UBX messages from a file or serial device to a Consumer.
type Reader struct {
	path     string
	consumer Consumer
	sleeper  Sleeper

	// Capture receives a copy of every raw byte read from a device source.
	// Set before calling Read; file sources ignore it.
	Capture io.Writer

	rewindMu        sync.Mutex
	rewindRequested bool

	mu            sync.Mutex
	state         string
	lastErr       string
	lastSkip      string
	lastSkipProto string
	lastMsg       time.Time
	decoded       uint64
	dispatched    uint64
	skipped       uint64
	epochs        uint64
	rewinds       uint64
	reopens       uint64
}

// NewReader builds a reader over path. The consumer supplies the dispatch
// callback, the required-type set and the replay wait time; it must be
// non-nil by the time Read is called.
func NewReader(path string, c Consumer) *Reader {
	return &Reader{
		path:     path,
		consumer: c,
		sleeper:  realSleeper{},
		state:    "stopped",
	}
}

// Read runs the decode loop until the source is exhausted. A file source
// ends at EOF; a device source is reopened with a fixed 1s backoff on every
// failure and only ends when stopOnFailure is set, in which case the first
// failure is returned immediately.
//
// The file/device decision is re-made from the filesystem on every open, so
// a path that becomes a file between retries is picked up.
func (r *Reader) Read(stopOnFailure bool) error {
	if r.consumer == nil {
		return fmt.Errorf("consumer is nil")
	}
	for {
		if isRegularFile(r.path) {
			if err := r.readFile(); err != nil {
				r.setState("error", err.Error())
				return err
			}
			r.setState("stopped", "")
			return nil
		}

		err := r.readDevice()
		if err == nil {
			r.setState("stopped", "")
			return nil
		}
		if stopOnFailure {
			r.setState("error", err.Error())
			return err
		}
		r.setState("retrying", err.Error())
		log.Printf("device read failed path=%s err=%v; retrying in %s", r.path, err, deviceRetryDelay)
		r.mu.Lock()
		r.reopens++
		r.mu.Unlock()
		r.sleeper.Sleep(deviceRetryDelay)
	}
}

// RewindFile asks a file-backed read loop to restart from the beginning of
// the file. The request is serviced at the next loop boundary; repeated
// calls before that collapse into a single rewind. On a non-file source
// this is a logged no-op.
func (r *Reader) RewindFile() {
	if !isRegularFile(r.path) {
		log.Printf("rewind ignored: input is not a file path=%s", r.path)
		return
	}
	r.rewindMu.Lock()
	r.rewindRequested = true
	r.rewindMu.Unlock()
}

// ReadMessagesOfType scans the whole file and returns every message whose
// identity matches, in stream order. It opens its own handle, so it is safe
// alongside a running Read loop. Only file sources are supported; anything
// else fails with ErrNotFile before any stream I/O.
func (r *Reader) ReadMessagesOfType(identity string) ([]*ubx.Message, error) {
	if !isRegularFile(r.path) {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, r.path)
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ubr := ubx.NewReader(f)
	var out []*ubx.Message
	for {
		msg, err := ubr.Read()
		if err != nil {
			var fe *ubx.FrameError
			if errors.As(err, &fe) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		if msg.Identity() == identity {
			out = append(out, msg)
		}
	}
}

// Snapshot reports current reader state and counters.
func (r *Reader) Snapshot() Snapshot {
	kind := "device"
	if isRegularFile(r.path) {
		kind = "file"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := Snapshot{
		Path:       r.path,
		Kind:       kind,
		State:      r.state,
		Decoded:    r.decoded,
		Dispatched: r.dispatched,
		Skipped:    r.skipped,
		Epochs:     r.epochs,
		Rewinds:    r.rewinds,
		Reopens:    r.reopens,
		LastSkip:   r.lastSkip,
		LastError:  r.lastErr,
	}
	if !r.lastMsg.IsZero() {
		out.LastMessageUTC = r.lastMsg.UTC().Format(time.RFC3339Nano)
	}
	return out
}

func (r *Reader) readFile() error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Printf("reading ubx from file path=%s", r.path)
	r.setState("reading-file", "")
	return r.consume(f, f)
}

func (r *Reader) readDevice() error {
	port, err := openSerialFn(r.path)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer port.Close()

	log.Printf("reading ubx from device path=%s baud=%d", r.path, DeviceBaud)
	r.setState("reading-device", "")

	var src io.Reader = port
	if r.Capture != nil {
		src = io.TeeReader(port, r.Capture)
	}
	return r.consume(src, nil)
}

// consume decodes src until EOF or a transport error. A non-nil file enables
// the file-only behaviors: the per-iteration yield, rewind servicing and
// epoch pacing.
func (r *Reader) consume(src io.Reader, file *os.File) error {
	ubr := ubx.NewReader(src)

	for {
		if file != nil {
			r.sleeper.Sleep(fileYield)
			if r.rewindPending() {
				if _, err := file.Seek(0, io.SeekStart); err != nil {
					return fmt.Errorf("rewind seek: %w", err)
				}
				ubr.Reset(file)
				r.finishRewind()
				log.Printf("rewound input path=%s", r.path)
			}
		}

		msg, err := ubr.Read()
		if err != nil {
			var fe *ubx.FrameError
			if errors.As(err, &fe) {
				r.noteSkip(fe)
				continue
			}
			if errors.Is(err, errNoData) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		identity := msg.Identity()
		r.noteMessage()

		if _, ok := r.consumer.RequiredTypes()[identity]; ok {
			r.consumer.Process(msg, identity)
			r.mu.Lock()
			r.dispatched++
			r.mu.Unlock()
		}

		if identity == EpochIdentity {
			r.mu.Lock()
			r.epochs++
			r.mu.Unlock()
			if file != nil {
				if w := r.consumer.WaitTime(); w > 0 {
					r.sleeper.Sleep(w)
				}
			}
		}
	}
}

// rewindPending reads the flag without holding the lock across the seek.
func (r *Reader) rewindPending() bool {
	r.rewindMu.Lock()
	defer r.rewindMu.Unlock()
	return r.rewindRequested
}

// finishRewind clears the flag after the seek has been performed.
func (r *Reader) finishRewind() {
	r.rewindMu.Lock()
	r.rewindRequested = false
	r.rewindMu.Unlock()

	r.mu.Lock()
	r.rewinds++
	r.mu.Unlock()
}

func (r *Reader) noteMessage() {
	r.mu.Lock()
	r.decoded++
	r.lastMsg = time.Now()
	r.mu.Unlock()
}

// noteSkip counts a rejected frame. Skips are logged only when the protocol
// changes so a mixed NMEA+UBX stream does not flood the log.
func (r *Reader) noteSkip(fe *ubx.FrameError) {
	r.mu.Lock()
	r.skipped++
	logIt := fe.Proto != r.lastSkipProto
	r.lastSkip = fe.Error()
	r.lastSkipProto = fe.Proto
	r.mu.Unlock()

	if logIt {
		log.Printf("skipping non-ubx input path=%s proto=%s reason=%q", r.path, fe.Proto, fe.Reason)
	}
}

func (r *Reader) setState(state, lastErr string) {
	r.mu.Lock()
	r.state = state
	if lastErr != "" {
		r.lastErr = lastErr
	} else if state == "reading-file" || state == "reading-device" || state == "stopped" {
		// Clear stale errors on healthy states so status output doesn't look
		// broken after a transient failure.
		r.lastErr = ""
	}
	r.mu.Unlock()
}

func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
