package ripgrep

import (
	"bufio"
	"bytes"
)

const maxEventSize = 16 * 1024 * 1024

// Stream pulls events from captured rg --json output.
//
//	s := ripgrep.NewStream(out)
//	for s.Next() {
//		ev := s.Event()
//	}
//	if err := s.Err(); err != nil { ... }
type Stream struct {
	scanner *bufio.Scanner
	parse   func([]byte) (Event, error)
	event   Event
	err     error
}

// NewStream yields events filtered by ParseEvent. Discarded events are skipped.
func NewStream(output []byte) *Stream {
	return newStream(output, ParseEvent)
}

// NewRawStream yields events decoded by DecodeEvent.
func NewRawStream(output []byte) *Stream {
	return newStream(output, DecodeEvent)
}

func newStream(output []byte, parse func([]byte) (Event, error)) *Stream {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &Stream{scanner: scanner, parse: parse}
}

// Next advances to the next begin or match event. It returns false at the end
// of output or on the first decoding error.
func (s *Stream) Next() bool {
	if s.err != nil {
		return false
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := s.parse(line)
		if err != nil {
			s.err = err
			return false
		}
		if ev.Kind == KindDiscard {
			continue
		}

		s.event = ev
		return true
	}

	s.err = s.scanner.Err()
	return false
}

// Event returns the event produced by the last call to Next.
func (s *Stream) Event() Event {
	return s.event
}

// Err returns the first error encountered by Next.
func (s *Stream) Err() error {
	return s.err
}
