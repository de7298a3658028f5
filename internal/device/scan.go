package device

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port as reported by the OS.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// ListAll returns every serial port the OS reports, unfiltered.
func ListAll() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}

// List returns the ports that look like a USB serial adapter or board.
func List() ([]string, error) {
	ports, err := ListAll()
	if err != nil {
		return nil, err
	}
	return filterPorts(ports, runtime.GOOS), nil
}

// Details returns USB details for every port the OS reports.
func Details() ([]PortInfo, error) {
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerating serial ports: %w", err)
	}
	infos := make([]PortInfo, 0, len(list))
	for _, d := range list {
		infos = append(infos, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Detect returns the first candidate port.
func Detect() (string, error) {
	ports, err := List()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no board found on any serial port")
	}
	return ports[0], nil
}

// filterPorts filters ports based on OS naming conventions.
func filterPorts(ports []string, goos string) []string {
	var filtered []string
	seen := make(map[string]bool)

	for _, port := range ports {
		if seen[port] {
			continue
		}
		seen[port] = true

		if goos == "windows" {
			if strings.HasPrefix(strings.ToUpper(port), "COM") {
				filtered = append(filtered, port)
			}
			continue
		}

		lower := strings.ToLower(port)
		if strings.Contains(lower, "bluetooth") {
			continue
		}
		if strings.Contains(lower, "ttyusb") ||
			strings.Contains(lower, "ttyacm") ||
			strings.Contains(lower, "usbserial") ||
			strings.Contains(lower, "usbmodem") ||
			strings.Contains(lower, "cu.") {
			filtered = append(filtered, port)
		}
	}

	return filtered
}
