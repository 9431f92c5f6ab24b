// Package device implements the external collaborators the synthesizer
// needs but the core logic does not: USB bulk transport for the two MIDI
// devices, the host audio driver, and device discovery. Nothing in this
// package is exercised by the wire codec, dispatcher, or engine tests
// directly; it is the runnable glue cmd/midi-synth wires together.
package device

import (
	"context"
	"time"
)

// UsbMidiDevice is the collaborator contract the reader/writer loops
// consume: read_bulk/write_bulk with a timeout.
type UsbMidiDevice interface {
	ReadBulk(ctx context.Context, buf []byte, timeout time.Duration) (int, error)
	WriteBulk(ctx context.Context, buf []byte, timeout time.Duration) (int, error)
}

// Known USB vendor/product pairs, grounded on the original device table.
const (
	KeystationVendorID  = 0x0a4d
	KeystationProductID = 0x0090
	KeystationInterface = 1
	KeystationReadEP    = 0x81 // endpoint 1 IN

	APC40VendorID  = 0x09e8
	APC40ProductID = 0x0029
	APC40Interface = 1
	APC40WriteEP   = 0x01 // endpoint 1 OUT
	APC40ReadEP    = 0x82 // endpoint 2 IN
)

// ReadTimeout is the short device-read timeout that lets reader loops
// observe the termination flag promptly.
const ReadTimeout = 100 * time.Millisecond

// WriteTimeout is the device-write timeout; its expiry is a fatal error.
const WriteTimeout = 5 * time.Second

// APC40InitFrame is the one-shot SysEx payload (id byte 0x47) the control
// surface expects before any reads.
var APC40InitFrame = []byte{0x7F, 0x29, 0x60, 0x00, 0x04, 0x42, 0x00, 0x00, 0x00}
