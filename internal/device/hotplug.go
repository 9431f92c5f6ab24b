package device

import (
	"fmt"

	"github.com/jochenvg/go-udev"
)

// HotplugWatcher notices the keyboard being plugged in after startup. The
// keyboard is the only device allowed to come and go; the control
// surface is required at startup and its loss is fatal, so it is not
// watched here.
type HotplugWatcher struct {
	monitor *udev.Monitor
	stop    chan struct{}
}

// NewHotplugWatcher builds a udev netlink monitor filtered to the usb
// subsystem; Watch picks out the add events for the keyboard.
func NewHotplugWatcher() *HotplugWatcher {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	mon.FilterAddMatchSubsystem("usb")

	return &HotplugWatcher{monitor: mon, stop: make(chan struct{})}
}

// Watch runs until Stop is called, invoking onKeyboardAttached whenever a
// USB add event carries the keyboard's vendor/product attributes.
func (w *HotplugWatcher) Watch(onKeyboardAttached func()) error {
	ch, err := w.monitor.DeviceChan(w.stop)
	if err != nil {
		return err
	}

	// udev reports the ids as four lowercase hex digits ("0a4d", "0090").
	wantVendor := fmt.Sprintf("%04x", KeystationVendorID)
	wantProduct := fmt.Sprintf("%04x", KeystationProductID)

	for ev := range ch {
		if ev == nil || ev.Action() != "add" {
			continue
		}

		vendor := ev.PropertyValue("ID_VENDOR_ID")
		product := ev.PropertyValue("ID_MODEL_ID")

		if vendor == wantVendor && product == wantProduct {
			onKeyboardAttached()
		}
	}

	return nil
}

// Stop ends Watch.
func (w *HotplugWatcher) Stop() {
	close(w.stop)
}
