package device

import (
	"errors"
	"sync"

	"github.com/google/gousb"

	"github.com/df5602/midi-synth/internal/midierr"
	"github.com/df5602/midi-synth/internal/synthlog"
)

// Devices bundles the two opened devices; Keyboard is nil when absent,
// which is non-fatal. Keyboard may be attached later via AttachKeyboard,
// so access to it is guarded by mu.
type Devices struct {
	ctx            *gousb.Context
	mu             sync.Mutex
	Keyboard       *KeystationDevice
	ControlSurface *APC40Device
}

// Discover opens the control surface (fatal if absent) and attempts the
// keyboard (logged and skipped if absent). The caller must Close the
// returned Devices on shutdown, which also releases its gousb.Context.
func Discover() (*Devices, error) {
	ctx := gousb.NewContext()

	surface, err := OpenAPC40(ctx)
	if err != nil {
		ctx.Close()

		return nil, err
	}

	keyboard, err := OpenKeystation(ctx)
	if err != nil {
		if errors.Is(err, midierr.ErrDeviceNotConnected) {
			synthlog.Printf(synthlog.Warn, "keyboard not connected, continuing without note input")

			keyboard = nil
		} else {
			surface.Close()
			ctx.Close()

			return nil, err
		}
	}

	return &Devices{ctx: ctx, Keyboard: keyboard, ControlSurface: surface}, nil
}

// Close releases the USB context and both device handles.
func (d *Devices) Close() {
	d.mu.Lock()
	keyboard := d.Keyboard
	d.mu.Unlock()

	if keyboard != nil {
		keyboard.Close()
	}

	d.ControlSurface.Close()
	d.ctx.Close()
}

// CurrentKeyboard returns the keyboard device, or nil if none is attached.
func (d *Devices) CurrentKeyboard() *KeystationDevice {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.Keyboard
}

// AttachKeyboard opens the keyboard on the context Discover already set
// up, for use after a HotplugWatcher reports it was plugged in. If the
// keyboard is already attached it returns the existing device and
// opened=false, so callers don't spawn a second reader over it.
func (d *Devices) AttachKeyboard() (kbd *KeystationDevice, opened bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Keyboard != nil {
		return d.Keyboard, false, nil
	}

	keyboard, err := OpenKeystation(d.ctx)
	if err != nil {
		return nil, false, err
	}

	d.Keyboard = keyboard

	return keyboard, true, nil
}
