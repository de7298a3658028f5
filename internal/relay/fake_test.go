package relay

import (
	"fmt"
	"io"
	"sync"
)

// fakeDevice plays back scripted replies. replies[0] is readable at once;
// replies[i] becomes readable only after the i-th write, so a line written
// early would find nothing to read.
type fakeDevice struct {
	chunkSize int

	chunks  chan []byte
	pending []byte
	replies []string

	mu     sync.Mutex
	writes []string
	closed bool
	done   chan struct{}
	once   sync.Once
}

func newFakeDevice(replies ...string) *fakeDevice {
	d := &fakeDevice{
		chunks: make(chan []byte, len(replies)+1),
		done:   make(chan struct{}),
	}
	if len(replies) > 0 {
		d.queue(replies[0])
		d.replies = replies[1:]
	}
	return d
}

func (d *fakeDevice) queue(s string) {
	if s != "" {
		d.chunks <- []byte(s)
	}
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	if len(d.pending) == 0 {
		select {
		case c := <-d.chunks:
			d.pending = c
		case <-d.done:
			return 0, io.EOF
		}
	}
	n := len(p)
	if d.chunkSize > 0 && n > d.chunkSize {
		n = d.chunkSize
	}
	if n > len(d.pending) {
		n = len(d.pending)
	}
	copy(p, d.pending[:n])
	d.pending = d.pending[n:]
	return n, nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	d.writes = append(d.writes, string(p))
	if len(d.replies) > 0 {
		d.queue(d.replies[0])
		d.replies = d.replies[1:]
	}
	return len(p), nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.once.Do(func() { close(d.done) })
	return nil
}

func (d *fakeDevice) Writes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.writes...)
}

func (d *fakeDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// recorder is an Observer keeping the event sequence.
type recorder struct {
	events []string
}

func (r *recorder) Waiting(n int, line string) {
	r.events = append(r.events, fmt.Sprintf("wait %d", n))
}

func (r *recorder) Received(text string, ack bool) {
	if ack {
		r.events = append(r.events, "ack "+text)
		return
	}
	r.events = append(r.events, "recv "+text)
}

func (r *recorder) Sending(n int, line string) {
	r.events = append(r.events, fmt.Sprintf("send %d", n))
}

// lines is a LineSource over a fixed slice.
type lines []string

func (l *lines) Next() (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}
	line := (*l)[0]
	*l = (*l)[1:]
	return line, nil
}

func linesOf(s ...string) *lines {
	l := lines(s)
	return &l
}
