package device

import (
	"go.bug.st/serial"
)

// serialPort wraps go.bug.st/serial for a physical RS232/USB-CDC port.
type serialPort struct {
	serial.Port
	name string
}

var _ Port = (*serialPort)(nil)

func openSerial(name string, baud int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return &serialPort{Port: p, name: name}, nil
}

func (p *serialPort) Name() string {
	return p.name
}
