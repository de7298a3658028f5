// ─────────────────────────────────────────────────────────────────────────────
//  linerelay :: relay  -  ack-gated line relay loop
//
//  For every input line: read device responses until one ends with
//  "ok\r\n", then write the line. One line in flight at a time; no timeout.
// ─────────────────────────────────────────────────────────────────────────────

package relay

import (
	"fmt"
	"io"
	"strings"
)

// Observer receives progress events for console output.
type Observer interface {
	Waiting(n int, line string)
	Received(text string, ack bool)
	Sending(n int, line string)
}

type nopObserver struct{}

func (nopObserver) Waiting(int, string)   {}
func (nopObserver) Received(string, bool) {}
func (nopObserver) Sending(int, string)   {}

// Options tunes a Session.
type Options struct {
	AckToken string   // default DefaultAckToken
	Observer Observer // may be nil
}

// Stats summarizes a finished or aborted run.
type Stats struct {
	Lines     int // lines written to the device
	Responses int // complete responses read
	Discarded int // responses that were not an acknowledgement
}

// Session owns the device stream and the input for one relay run.
type Session struct {
	port   io.ReadWriter
	input  LineSource
	reader *ResponseReader
	ack    string
	obs    Observer
	stats  Stats
}

// NewSession creates a Session writing lines from input to port.
func NewSession(port io.ReadWriter, input LineSource, opts Options) *Session {
	ack := opts.AckToken
	if ack == "" {
		ack = DefaultAckToken
	}
	var obs Observer = nopObserver{}
	if opts.Observer != nil {
		obs = opts.Observer
	}
	return &Session{
		port:   port,
		input:  input,
		reader: NewResponseReader(port),
		ack:    ack,
		obs:    obs,
	}
}

// Stats returns the counters so far.
func (s *Session) Stats() Stats {
	return s.stats
}

// WaitReady blocks until the device sends an acknowledgement. Other
// responses are reported and discarded.
func (s *Session) WaitReady() error {
	for {
		raw, err := s.reader.ReadResponse()
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		s.stats.Responses++

		ack := IsAck(raw, s.ack)
		s.obs.Received(strings.TrimSpace(decodeASCII(raw)), ack)
		if ack {
			return nil
		}
		s.stats.Discarded++
	}
}

// Send waits for the device to be ready and writes line in full. A line
// that is not ASCII fails after the acknowledgement, before any write.
func (s *Session) Send(line string) error {
	n := s.stats.Lines + 1
	s.obs.Waiting(n, line)
	if err := s.WaitReady(); err != nil {
		return err
	}

	data, err := EncodeASCII(line)
	if err != nil {
		if encErr, ok := err.(*EncodingError); ok {
			encErr.Line = n
		}
		return err
	}

	s.obs.Sending(n, line)
	if err := writeFull(s.port, data); err != nil {
		return fmt.Errorf("writing line %d: %w", n, err)
	}
	s.stats.Lines++
	return nil
}

// Run sends every input line in order.
func (s *Session) Run() (Stats, error) {
	for {
		line, err := s.input.Next()
		if err == io.EOF {
			return s.stats, nil
		}
		if err != nil {
			return s.stats, err
		}
		if err := s.Send(line); err != nil {
			return s.stats, err
		}
	}
}

func writeFull(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}

// Opener opens the named device.
type Opener func(name string) (io.ReadWriteCloser, error)

// Run opens the device, relays every input line and closes the device on
// every exit path.
func Run(name string, open Opener, input LineSource, opts Options) (stats Stats, err error) {
	port, err := open(name)
	if err != nil {
		return Stats{}, &OpenError{Port: name, Err: err}
	}
	defer func() {
		if cerr := port.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing device: %w", cerr)
		}
	}()

	return NewSession(port, input, opts).Run()
}
