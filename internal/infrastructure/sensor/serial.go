package sensor

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate совпадает с прошивкой датчика.
	DefaultBaudRate = 115200
	readTimeout     = time.Second
)

// OpenSerial открывает последовательный порт датчика с таймаутом чтения,
// чтобы опрос не зависал в Read.
func OpenSerial(portName string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", portName, err)
	}
	return port, nil
}
