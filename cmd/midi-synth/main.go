// Command midi-synth is the monophonic subtractive synthesizer's single
// executable: it opens the keyboard and control-surface USB MIDI
// devices, the host audio driver, wires the dispatcher and engine
// between them, and runs until SIGINT or a fatal error. It takes no
// flags, reads no environment variables, and persists no state.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/df5602/midi-synth/internal/control"
	"github.com/df5602/midi-synth/internal/device"
	"github.com/df5602/midi-synth/internal/engine"
	"github.com/df5602/midi-synth/internal/midi"
	"github.com/df5602/midi-synth/internal/runstate"
	"github.com/df5602/midi-synth/internal/synthlog"
)

const eventChannelCapacity = 256

func main() {
	printVersion()

	if err := run(); err != nil {
		synthlog.Fatal("midi-synth exited with error", err)
	}
}

func run() error {
	term := runstate.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGINT)

	go func() {
		<-sigCh
		synthlog.Printf(synthlog.Info, "received interrupt, shutting down")
		term.Set()
		cancel()
	}()

	devices, err := device.Discover()
	if err != nil {
		return fmt.Errorf("device discovery: %w", err)
	}
	defer devices.Close()

	audio, err := device.NewAudioDriver(term)
	if err != nil {
		return fmt.Errorf("audio driver: %w", err)
	}
	defer audio.Terminate() //nolint:errcheck

	events := make(chan control.Event, eventChannelCapacity)
	toSurface := make(chan midi.Message, eventChannelCapacity)
	toEngine := make(chan control.SynthControl, eventChannelCapacity)

	synth := engine.New(toEngine)

	if err := audio.Start(synth.NextSample); err != nil {
		return fmt.Errorf("audio start: %w", err)
	}
	defer audio.Stop() //nolint:errcheck

	var wg sync.WaitGroup

	errs := make(chan error, 8)

	runGoroutine := func(name string, fn func() error) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := fn(); err != nil && !term.IsSet() {
				synthlog.Error("goroutine exited with error", err, "goroutine", name)
				term.Set()
				cancel()
				errs <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	startKeyboardReader := func(kbd device.UsbMidiDevice) {
		runGoroutine("keyboard-reader", func() error {
			return device.Listen(ctx, kbd, control.Keyboard, events, term)
		})
	}

	if kbd := devices.CurrentKeyboard(); kbd != nil {
		startKeyboardReader(kbd)
	}

	runGoroutine("surface-reader", func() error {
		return device.Listen(ctx, devices.ControlSurface, control.ControlPanel, events, term)
	})

	runGoroutine("surface-writer", func() error {
		return device.Write(ctx, devices.ControlSurface, toSurface, term)
	})

	dispatcher := control.New(events, toSurface, toEngine, term.Done())

	runGoroutine("dispatcher", dispatcher.Run)

	watcher := device.NewHotplugWatcher()

	go func() {
		<-term.Done()
		watcher.Stop()
	}()

	runGoroutine("hotplug-watcher", func() error {
		return watcher.Watch(func() {
			kbd, opened, err := devices.AttachKeyboard()
			if err != nil {
				synthlog.Error("keyboard hotplug attach failed", err)

				return
			}

			if !opened {
				return
			}

			synthlog.Printf(synthlog.Info, "keyboard attached, starting reader")
			startKeyboardReader(kbd)
		})
	})

	wg.Wait()
	close(errs)

	var firstErr error
	for e := range errs {
		if firstErr == nil {
			firstErr = e
		}
	}

	return firstErr
}
