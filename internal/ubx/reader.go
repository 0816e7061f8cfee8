package ubx

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	nmeaStart    = '$'
	rtcmPreamble = 0xD3

	// maxNMEALen bounds how long we wait for a sentence terminator before
	// deciding the '$' was noise (NMEA 0183 caps sentences at 82 chars).
	maxNMEALen = 128
)

// FrameError reports a frame that was recognized, consumed and rejected:
// another protocol interleaved on the same port (NMEA, RTCM3) or a corrupt
// UBX frame. The stream stays usable; call Read again for the next frame.
type FrameError struct {
	Proto  string
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("skipped %s frame: %s", e.Proto, e.Reason)
}

// Reader scans a byte stream for UBX frames. It tolerates interframe noise,
// interleaved NMEA sentences and RTCM3 frames, and frames split across
// arbitrarily small reads.
type Reader struct {
	r       io.Reader
	buf     []byte
	scratch [512]byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Reset points the reader at src and discards any buffered partial input.
// Used after seeking the underlying stream.
func (r *Reader) Reset(src io.Reader) {
	r.r = src
	r.buf = r.buf[:0]
}

// Read returns the next complete UBX message. It returns *FrameError for
// recognized non-UBX or corrupt frames (recoverable), and surfaces
// underlying read errors once the buffer cannot yield a frame; io.EOF means
// the stream is exhausted.
func (r *Reader) Read() (*Message, error) {
	for {
		msg, err := r.tryFrame()
		if msg != nil || err != nil {
			return msg, err
		}
		n, err := r.r.Read(r.scratch[:])
		if n > 0 {
			r.buf = append(r.buf, r.scratch[:n]...)
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

// tryFrame scans the buffer for one frame. nil, nil means more input is
// needed.
func (r *Reader) tryFrame() (*Message, error) {
	for len(r.buf) > 0 {
		switch r.buf[0] {
		case syncChar1:
			if len(r.buf) < 2 {
				return nil, nil
			}
			if r.buf[1] != syncChar2 {
				// Lone sync byte; keep scanning.
				r.buf = r.buf[1:]
				continue
			}
			return r.tryUBX()
		case nmeaStart:
			done, err := r.tryNMEA()
			if !done {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
		case rtcmPreamble:
			done, err := r.tryRTCM()
			if !done {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
		default:
			// Interframe noise.
			r.buf = r.buf[1:]
		}
	}
	return nil, nil
}

// tryUBX parses one UBX frame at the head of the buffer. The caller has
// already verified both sync chars.
func (r *Reader) tryUBX() (*Message, error) {
	if len(r.buf) < headerLen {
		return nil, nil
	}
	payloadLen := int(binary.LittleEndian.Uint16(r.buf[4:6]))
	if payloadLen > maxPayloadLen {
		r.buf = r.buf[2:]
		return nil, &FrameError{Proto: "UBX", Reason: fmt.Sprintf("implausible length %d", payloadLen)}
	}
	total := frameOverhead + payloadLen
	if len(r.buf) < total {
		return nil, nil
	}

	frame := r.buf[:total]
	ckA, ckB := Checksum(frame[2 : headerLen+payloadLen])
	if ckA != frame[total-2] || ckB != frame[total-1] {
		r.buf = r.buf[2:]
		return nil, &FrameError{Proto: "UBX", Reason: fmt.Sprintf("checksum mismatch class=0x%02X id=0x%02X", frame[2], frame[3])}
	}

	msg := &Message{
		Class:   frame[2],
		ID:      frame[3],
		Payload: append([]byte(nil), frame[headerLen:headerLen+payloadLen]...),
	}
	r.buf = r.buf[total:]
	return msg, nil
}

// tryNMEA consumes one NMEA sentence. done=false means the terminator has
// not arrived yet.
func (r *Reader) tryNMEA() (done bool, err error) {
	for i := 1; i < len(r.buf); i++ {
		if r.buf[i] == '\n' {
			talker := sentenceTag(r.buf[:i])
			r.buf = r.buf[i+1:]
			return true, &FrameError{Proto: "NMEA", Reason: "sentence " + talker}
		}
		if i >= maxNMEALen {
			// Too long for a sentence; the '$' was noise.
			r.buf = r.buf[1:]
			return true, nil
		}
	}
	if len(r.buf) > maxNMEALen {
		r.buf = r.buf[1:]
		return true, nil
	}
	return false, nil
}

func (r *Reader) tryRTCM() (done bool, err error) {
	if len(r.buf) < 3 {
		return false, nil
	}
	// 6 reserved bits, then a 10-bit payload length; 3 CRC bytes trail.
	payloadLen := int(r.buf[1]&0x03)<<8 | int(r.buf[2])
	total := 3 + payloadLen + 3
	if len(r.buf) < total {
		return false, nil
	}
	r.buf = r.buf[total:]
	return true, &FrameError{Proto: "RTCM3", Reason: fmt.Sprintf("frame len=%d", payloadLen)}
}

// sentenceTag extracts the "$GNGGA"-style sentence tag for skip diagnostics.
func sentenceTag(line []byte) string {
	end := len(line)
	for i, b := range line {
		if b == ',' || b == '*' || b == '\r' {
			end = i
			break
		}
	}
	if end > 8 {
		end = 8
	}
	return string(line[:end])
}
