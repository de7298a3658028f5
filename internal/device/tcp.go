package device

import (
	"fmt"
	"net"
	"time"
)

const dialTimeout = 5 * time.Second

// tcpPort wraps a TCP connection to a serial-over-TCP bridge (ser2net,
// ESP-Link and friends) as a Port.
type tcpPort struct {
	conn    net.Conn
	address string
}

var _ Port = (*tcpPort)(nil)

func openTCP(address string) (Port, error) {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return &tcpPort{conn: conn, address: address}, nil
}

func (t *tcpPort) Read(p []byte) (int, error) {
	return t.conn.Read(p)
}

func (t *tcpPort) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

func (t *tcpPort) Close() error {
	return t.conn.Close()
}

func (t *tcpPort) Name() string {
	return TCPPrefix + t.address
}
