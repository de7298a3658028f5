// ─────────────────────────────────────────────────────────────────────────────
//  linerelay :: device  -  the duplex byte stream the relay writes to
// ─────────────────────────────────────────────────────────────────────────────

package device

import (
	"io"
	"runtime"
	"strings"
)

// TCPPrefix marks a port name as a serial-over-TCP bridge address,
// e.g. "tcp://192.168.1.20:2000".
const TCPPrefix = "tcp://"

// AutoPort asks Open's callers to pick the first detected candidate port.
const AutoPort = "auto"

// Port is an open device handle. Reads and writes block until they
// complete; there is no read timeout.
type Port interface {
	io.ReadWriteCloser
	Name() string
}

// Open opens a port - either a physical serial port or a TCP bridge based
// on the name format. Serial ports are opened at baud, 8N1.
func Open(name string, baud int) (Port, error) {
	if strings.HasPrefix(name, TCPPrefix) {
		return openTCP(strings.TrimPrefix(name, TCPPrefix))
	}
	return openSerial(name, baud)
}

// DefaultPort returns the conventional first USB serial port for the OS.
func DefaultPort() string {
	if runtime.GOOS == "windows" {
		return "COM3"
	}
	return "/dev/ttyUSB0"
}
