package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxPartialLine = 64 * 1024

// LogBuffer is an io.Writer that keeps the most recent log lines in
// memory for the /api/logs endpoint.
type LogBuffer struct {
	mu      sync.Mutex
	limit   int
	buf     []string
	frag    []byte
	dropped uint64
}

func NewLogBuffer(maxLines int) *LogBuffer {
	b := &LogBuffer{limit: maxLines}
	if b.limit <= 0 {
		b.limit = 2000
	}
	return b
}

// Write implements io.Writer. Bytes after the last newline are held
// until the line completes.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := p
	if len(b.frag) > 0 {
		data = append(b.frag, p...)
		b.frag = nil
	}

	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		b.pushLocked(data[:i])
		data = data[i+1:]
	}
	if len(data) > 0 {
		if len(data) > maxPartialLine {
			// Flush oversized unterminated lines instead of growing.
			b.pushLocked(data)
		} else {
			b.frag = append([]byte(nil), data...)
		}
	}

	return len(p), nil
}

func (b *LogBuffer) pushLocked(raw []byte) {
	line := strings.TrimRight(string(raw), "\r")
	if line == "" {
		return
	}
	b.buf = append(b.buf, line)
	if n := len(b.buf) - b.limit; n > 0 {
		b.buf = b.buf[n:]
		b.dropped += uint64(n)
	}
}

type LogsResponse struct {
	NowUTC  string   `json:"now_utc"`
	Dropped uint64   `json:"dropped"`
	Lines   []string `json:"lines"`
}

// Snapshot copies out the newest tail lines, oldest first. tail <= 0
// means everything buffered.
func (b *LogBuffer) Snapshot(tail int) (lines []string, dropped uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.buf)
	if tail > 0 && tail < n {
		n = tail
	}
	return append([]string(nil), b.buf[len(b.buf)-n:]...), b.dropped
}

// tailParam reads the ?tail= query parameter, defaulting to 200 lines.
func tailParam(r *http.Request) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get("tail"))
	if s == "" {
		return 200, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 5000 {
		return 0, fmt.Errorf("tail must be an integer in [1,5000]")
	}
	return v, nil
}

func (b *LogBuffer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowOnly(w, r, http.MethodGet) {
			return
		}

		tail, err := tailParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lines, dropped := b.Snapshot(tail)

		w.Header().Set("Cache-Control", "no-store")
		if strings.EqualFold(r.URL.Query().Get("format"), "text") {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if dropped > 0 {
				_, _ = fmt.Fprintf(w, "[dropped=%d]\n", dropped)
			}
			if len(lines) > 0 {
				_, _ = io.WriteString(w, strings.Join(lines, "\n")+"\n")
			}
			return
		}

		writeJSON(w, LogsResponse{
			NowUTC:  time.Now().UTC().Format(time.RFC3339Nano),
			Dropped: dropped,
			Lines:   lines,
		})
	})
}
