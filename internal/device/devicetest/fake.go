// Package devicetest provides a loopback UsbMidiDevice fixture for
// exercising the reader/writer goroutines against real blocking I/O and
// real timeouts, instead of mocking gousb directly. It is grounded on the
// teacher repo's use of github.com/creack/pty to build a serial loopback
// fixture in src/kiss.go.
package devicetest

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/creack/pty"
)

// PTYDevice implements device.UsbMidiDevice over one end of a pty pair.
// Bytes written to Peer are what ReadBulk returns; bytes passed to
// WriteBulk are readable from Peer.
type PTYDevice struct {
	master, slave *os.File
}

// NewPTYDevice allocates a pty pair. The caller uses Peer to inject
// bytes the device "reads" and to observe bytes the device "writes".
func NewPTYDevice() (*PTYDevice, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, err
	}

	return &PTYDevice{master: master, slave: slave}, nil
}

// Peer returns the far end of the loopback, for test code to drive.
func (p *PTYDevice) Peer() *os.File { return p.slave }

// Close releases both ends of the pty.
func (p *PTYDevice) Close() error {
	err1 := p.master.Close()
	err2 := p.slave.Close()

	if err1 != nil {
		return err1
	}

	return err2
}

// ReadBulk implements device.UsbMidiDevice. A deadline expiry is treated
// as a benign timeout (0 bytes, nil error), matching the USB transport's
// timeout semantics.
func (p *PTYDevice) ReadBulk(_ context.Context, buf []byte, timeout time.Duration) (int, error) {
	_ = p.master.SetReadDeadline(time.Now().Add(timeout))

	n, err := p.master.Read(buf)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return n, nil
		}

		return n, err
	}

	return n, nil
}

// WriteBulk implements device.UsbMidiDevice.
func (p *PTYDevice) WriteBulk(_ context.Context, buf []byte, timeout time.Duration) (int, error) {
	_ = p.master.SetWriteDeadline(time.Now().Add(timeout))

	n, err := p.master.Write(buf)
	if err != nil {
		return n, err
	}

	return n, nil
}
