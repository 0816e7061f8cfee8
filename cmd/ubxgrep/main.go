// ubxgrep inspects UBX capture files: without flags it prints per-message
// counts, with -type it extracts every message of one identity.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"gnssview/internal/stream"
	"gnssview/internal/ubx"
)

type ubxSummary struct {
	Messages uint64
	Skipped  uint64
	Counts   map[string]uint64
}

func summarizeUBX(r io.Reader) (ubxSummary, error) {
	s := ubxSummary{Counts: map[string]uint64{}}
	ubr := ubx.NewReader(r)
	for {
		msg, err := ubr.Read()
		if err != nil {
			var fe *ubx.FrameError
			if errors.As(err, &fe) {
				s.Skipped++
				continue
			}
			if errors.Is(err, io.EOF) {
				return s, nil
			}
			return s, err
		}
		s.Messages++
		s.Counts[msg.Identity()]++
	}
}

func printSummary(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := summarizeUBX(f)
	if err != nil {
		return err
	}

	fmt.Printf("path: %s\n", path)
	fmt.Printf("messages: %d\n", s.Messages)
	fmt.Printf("skipped_frames: %d\n", s.Skipped)

	ids := make([]string, 0, len(s.Counts))
	for id := range s.Counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Printf("counts:\n")
	for _, id := range ids {
		fmt.Printf("  %s: %d\n", id, s.Counts[id])
	}
	return nil
}

// writeMessages emits the matched frames: raw wire bytes by default, so
// the output is itself a valid UBX capture, or one hex line per frame.
func writeMessages(w io.Writer, msgs []*ubx.Message, limit int, hexOut bool) error {
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	for _, m := range msgs {
		if hexOut {
			if _, err := fmt.Fprintf(w, "%x\n", m.Serialize()); err != nil {
				return err
			}
			continue
		}
		if _, err := w.Write(m.Serialize()); err != nil {
			return err
		}
	}
	return nil
}

func printMessagesOfType(path, identity string, limit int, hexOut bool) error {
	msgs, err := stream.NewReader(path, nil).ReadMessagesOfType(identity)
	if err != nil {
		return err
	}
	if err := writeMessages(os.Stdout, msgs, limit, hexOut); err != nil {
		return err
	}
	n := len(msgs)
	if limit > 0 && limit < n {
		n = limit
	}
	fmt.Fprintf(os.Stderr, "ubxgrep: wrote %d of %d %s messages\n", n, len(msgs), identity)
	return nil
}

func main() {
	var (
		typ    string
		n      int
		hexOut bool
	)
	flag.StringVar(&typ, "type", "", `message identity to extract (e.g. "UBX-NAV-PVT"); empty prints a summary`)
	flag.IntVar(&n, "n", 0, "write at most n messages in extract mode (0 = all)")
	flag.BoolVar(&hexOut, "hex", false, "one hex line per frame instead of raw bytes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] FILE\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	if typ == "" {
		err = printSummary(flag.Arg(0))
	} else {
		err = printMessagesOfType(flag.Arg(0), typ, n, hexOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ubxgrep: %v\n", err)
		os.Exit(1)
	}
}
