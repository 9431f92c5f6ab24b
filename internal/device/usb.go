package device

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/df5602/midi-synth/internal/midi"
	"github.com/df5602/midi-synth/internal/midierr"
)

// usbDevice wraps a claimed gousb interface and its IN/OUT bulk
// endpoints. Both Keystation and APC40 devices share this shape; only
// which endpoints exist differs.
type usbDevice struct {
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint
}

func openUSBDevice(ctx *gousb.Context, vendorID, productID gousb.ID, iface int) (*usbDevice, error) {
	dev, err := ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", midierr.ErrTransport, err)
	}

	if dev == nil {
		return nil, midierr.ErrDeviceNotConnected
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()

		return nil, fmt.Errorf("%w: claim config: %v", midierr.ErrTransport, err)
	}

	intf, err := cfg.Interface(iface, 0)
	if err != nil {
		cfg.Close()
		dev.Close()

		return nil, fmt.Errorf("%w: claim interface %d: %v", midierr.ErrTransport, iface, err)
	}

	return &usbDevice{dev: dev, cfg: cfg, intf: intf}, nil
}

func (u *usbDevice) Close() {
	u.intf.Close()
	u.cfg.Close()
	u.dev.Close()
}

// KeystationDevice is the M-Audio Keystation 49e: read-only, notes only.
type KeystationDevice struct {
	*usbDevice
}

// OpenKeystation opens the keyboard and claims its bulk IN endpoint. A
// missing device is reported as midierr.ErrDeviceNotConnected, which is
// non-fatal for the keyboard.
func OpenKeystation(ctx *gousb.Context) (*KeystationDevice, error) {
	u, err := openUSBDevice(ctx, KeystationVendorID, KeystationProductID, KeystationInterface)
	if err != nil {
		return nil, err
	}

	in, err := u.intf.InEndpoint(KeystationReadEP & 0x0F)
	if err != nil {
		u.Close()

		return nil, fmt.Errorf("%w: keystation in endpoint: %v", midierr.ErrTransport, err)
	}

	u.in = in

	return &KeystationDevice{usbDevice: u}, nil
}

// ReadBulk implements UsbMidiDevice.
func (k *KeystationDevice) ReadBulk(ctx context.Context, buf []byte, timeout time.Duration) (int, error) {
	return readBulk(ctx, k.in, buf, timeout)
}

// WriteBulk implements UsbMidiDevice; the keyboard is read-only.
func (k *KeystationDevice) WriteBulk(context.Context, []byte, time.Duration) (int, error) {
	return 0, midierr.ErrOperationNotSupported
}

// APC40Device is the Akai APC40 MkII control surface: read+write.
type APC40Device struct {
	*usbDevice
}

// OpenAPC40 opens the control surface, claims its bulk endpoints, and
// sends the one-shot SysEx init frame before returning.
func OpenAPC40(ctx *gousb.Context) (*APC40Device, error) {
	u, err := openUSBDevice(ctx, APC40VendorID, APC40ProductID, APC40Interface)
	if err != nil {
		return nil, err
	}

	in, err := u.intf.InEndpoint(APC40ReadEP & 0x0F)
	if err != nil {
		u.Close()

		return nil, fmt.Errorf("%w: apc40 in endpoint: %v", midierr.ErrTransport, err)
	}

	out, err := u.intf.OutEndpoint(APC40WriteEP)
	if err != nil {
		u.Close()

		return nil, fmt.Errorf("%w: apc40 out endpoint: %v", midierr.ErrTransport, err)
	}

	u.in, u.out = in, out

	a := &APC40Device{usbDevice: u}

	init := midi.SystemExclusive{ID: midi.OneByteID(0x47), Payload: APC40InitFrame}
	if _, err := a.WriteBulk(context.Background(), midi.SerializeBytes(init, 0), WriteTimeout); err != nil {
		a.Close()

		return nil, err
	}

	return a, nil
}

// ReadBulk implements UsbMidiDevice.
func (a *APC40Device) ReadBulk(ctx context.Context, buf []byte, timeout time.Duration) (int, error) {
	return readBulk(ctx, a.in, buf, timeout)
}

// WriteBulk implements UsbMidiDevice.
func (a *APC40Device) WriteBulk(ctx context.Context, buf []byte, timeout time.Duration) (int, error) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	n, err := a.out.WriteContext(wctx, buf)
	if err != nil {
		return n, fmt.Errorf("%w: %v", midierr.ErrTransport, err)
	}

	return n, nil
}

func readBulk(ctx context.Context, ep *gousb.InEndpoint, buf []byte, timeout time.Duration) (int, error) {
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	n, err := ep.ReadContext(rctx, buf)
	if err != nil {
		if isTimeout(err) {
			return n, nil
		}

		return n, fmt.Errorf("%w: %v", midierr.ErrTransport, err)
	}

	return n, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }

	te, ok := err.(timeouter) //nolint:errorlint

	return ok && te.Timeout()
}
