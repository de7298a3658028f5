package relay

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionScenarios(t *testing.T) {
	testCases := []struct {
		name    string
		input   []string
		replies []string
		writes  []string
		events  []string
		stats   Stats
	}{
		{
			name:    "noise before ok",
			input:   []string{"AT\n"},
			replies: []string{"noise\r\nok\r\n"},
			writes:  []string{"AT\n"},
			events:  []string{"wait 1", "recv noise", "ack ok", "send 1"},
			stats:   Stats{Lines: 1, Responses: 2, Discarded: 1},
		},
		{
			name:    "one ok per line",
			input:   []string{"G1 X10\n", "G1 Y10\n"},
			replies: []string{"ok\r\n", "ok\r\n"},
			writes:  []string{"G1 X10\n", "G1 Y10\n"},
			events:  []string{"wait 1", "ack ok", "send 1", "wait 2", "ack ok", "send 2"},
			stats:   Stats{Lines: 2, Responses: 2},
		},
		{
			name:  "firmware prompt",
			input: []string{"G21\n", "G1 X1 Y1\n", "G1 X2 Y2"},
			replies: []string{
				"( Starting )\r\nok\r\n",
				">>> ok\r\n",
				">>> !! Unhandled command: M5.00\r\nok\r\n",
			},
			writes: []string{"G21\n", "G1 X1 Y1\n", "G1 X2 Y2"},
			events: []string{
				"wait 1", "recv ( Starting )", "ack ok", "send 1",
				"wait 2", "ack >>> ok", "send 2",
				"wait 3", "recv >>> !! Unhandled command: M5.00", "ack ok", "send 3",
			},
			stats: Stats{Lines: 3, Responses: 5, Discarded: 2},
		},
		{
			name:    "no input",
			replies: []string{"ok\r\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dev := newFakeDevice(tc.replies...)
			rec := &recorder{}
			stats, err := NewSession(dev, linesOf(tc.input...), Options{Observer: rec}).Run()
			require.NoError(t, err)
			require.Equal(t, tc.writes, dev.Writes())
			require.Equal(t, tc.events, rec.events)
			require.Equal(t, tc.stats, stats)
		})
	}
}

func TestSessionSingleByteReads(t *testing.T) {
	dev := newFakeDevice("noise\r\nok\r\n", "ok\r\n")
	dev.chunkSize = 1
	stats, err := NewSession(dev, linesOf("a\n", "b\n"), Options{}).Run()
	require.NoError(t, err)
	require.Equal(t, []string{"a\n", "b\n"}, dev.Writes())
	require.Equal(t, 2, stats.Lines)
}

func TestSessionCustomAckToken(t *testing.T) {
	dev := newFakeDevice("ok\r\nREADY\r\n")
	rec := &recorder{}
	_, err := NewSession(dev, linesOf("PING\n"), Options{AckToken: "READY", Observer: rec}).Run()
	require.NoError(t, err)
	require.Equal(t, []string{"wait 1", "recv ok", "ack READY", "send 1"}, rec.events)
}

func TestSessionBlocksWithoutAck(t *testing.T) {
	dev := newFakeDevice("noise\r\n", "ok\r\n")
	done := make(chan error, 1)
	go func() {
		_, err := NewSession(dev, linesOf("AT\n"), Options{}).Run()
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("relay returned before any ok: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
	require.Empty(t, dev.Writes())

	// Closing the device is the only way out.
	require.NoError(t, dev.Close())
	err := <-done
	require.ErrorIs(t, err, io.EOF)
	require.Empty(t, dev.Writes())
}

func TestSessionEncodingFailure(t *testing.T) {
	dev := newFakeDevice("ok\r\n", "ok\r\n")
	stats, err := NewSession(dev, linesOf("G1 X1\n", "G1 X2°\n", "G1 X3\n"), Options{}).Run()

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, 2, encErr.Line)
	require.Equal(t, []string{"G1 X1\n"}, dev.Writes())
	require.Equal(t, 1, stats.Lines)
}

func TestSessionEncodingFailureWaitsForAck(t *testing.T) {
	t.Run("silent device", func(t *testing.T) {
		dev := newFakeDevice()
		done := make(chan error, 1)
		go func() {
			_, err := NewSession(dev, linesOf("G1 X2°\n"), Options{}).Run()
			done <- err
		}()

		select {
		case err := <-done:
			t.Fatalf("returned before any ok: %v", err)
		case <-time.After(100 * time.Millisecond):
		}

		require.NoError(t, dev.Close())
		err := <-done
		require.ErrorIs(t, err, io.EOF)
		var encErr *EncodingError
		require.False(t, errors.As(err, &encErr))
		require.Empty(t, dev.Writes())
	})

	t.Run("ok consumed", func(t *testing.T) {
		dev := newFakeDevice("ok\r\n")
		rec := &recorder{}
		sess := NewSession(dev, linesOf("G1 X2°\n"), Options{Observer: rec})
		_, err := sess.Run()

		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr)
		require.Equal(t, 1, encErr.Line)
		require.Equal(t, []string{"wait 1", "ack ok"}, rec.events)
		require.Equal(t, Stats{Responses: 1}, sess.Stats())
		require.Empty(t, dev.Writes())
	})
}

type shortWriter struct {
	io.Reader
	got []byte
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > 2 {
		p = p[:2]
	}
	w.got = append(w.got, p...)
	return len(p), nil
}

func TestSessionWritesInFull(t *testing.T) {
	port := &shortWriter{Reader: newFakeDevice("ok\r\n")}
	require.NoError(t, NewSession(port, linesOf("G1 X100 Y200\n"), Options{}).Send("G1 X100 Y200\n"))
	require.Equal(t, "G1 X100 Y200\n", string(port.got))
}

type failingSource struct{}

func (failingSource) Next() (string, error) {
	return "", errors.New("disk on fire")
}

func TestSessionInputError(t *testing.T) {
	dev := newFakeDevice("ok\r\n")
	_, err := NewSession(dev, failingSource{}, Options{}).Run()
	require.EqualError(t, err, "disk on fire")
	require.Empty(t, dev.Writes())
}

func TestRunClosesDevice(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dev := newFakeDevice("ok\r\n")
		var opened string
		open := func(name string) (io.ReadWriteCloser, error) {
			opened = name
			return dev, nil
		}
		stats, err := Run("COM3", open, linesOf("AT\n"), Options{})
		require.NoError(t, err)
		require.Equal(t, "COM3", opened)
		require.Equal(t, 1, stats.Lines)
		require.True(t, dev.Closed())
	})

	t.Run("encoding failure", func(t *testing.T) {
		dev := newFakeDevice("ok\r\n")
		open := func(string) (io.ReadWriteCloser, error) { return dev, nil }
		_, err := Run("COM3", open, linesOf("é\n"), Options{})
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr)
		require.True(t, dev.Closed())
	})

	t.Run("open failure", func(t *testing.T) {
		cause := errors.New("no such file or directory")
		open := func(string) (io.ReadWriteCloser, error) { return nil, cause }
		_, err := Run("/dev/ttyUSB9", open, linesOf("AT\n"), Options{})
		var openErr *OpenError
		require.ErrorAs(t, err, &openErr)
		require.Equal(t, "/dev/ttyUSB9", openErr.Port)
		require.ErrorIs(t, err, cause)
	})
}
