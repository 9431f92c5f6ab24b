// Package midierr defines the error kinds shared across the USB-MIDI
// transport, device, and dispatcher layers.
package midierr

import "errors"

// Sentinel kinds, matched with errors.Is against wrapped errors.
var (
	// ErrTransport is a read/write failure on a device handle, excluding
	// benign timeouts.
	ErrTransport = errors.New("transport error")

	// ErrDeviceNotConnected means opening a device failed because it is
	// absent. Non-fatal for the keyboard, fatal for the control surface.
	ErrDeviceNotConnected = errors.New("device not connected")

	// ErrOperationNotSupported is returned for e.g. a write on a
	// read-only device.
	ErrOperationNotSupported = errors.New("operation not supported")

	// ErrMalformedPacket marks a parser-level defect: non-fatal, logged
	// and skipped by the caller.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrUnknownPacket marks an unrecognized code index number.
	ErrUnknownPacket = errors.New("unknown packet")

	// ErrChannelClosed is returned when a send target channel has been
	// closed; it terminates the sender.
	ErrChannelClosed = errors.New("channel closed")

	// ErrAudioDriver wraps a fatal error from the host audio driver.
	ErrAudioDriver = errors.New("audio driver error")
)
