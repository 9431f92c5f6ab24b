package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df5602/midi-synth/internal/control"
	"github.com/df5602/midi-synth/internal/midi"
)

// newDispatcher wires a Dispatcher with generously buffered channels so
// tests can drive it synchronously without a separate goroutine. It does
// not drain the startup handshake; callers do that with drainHandshake
// after Run returns.
func newDispatcher(t *testing.T) (*control.Dispatcher, chan control.Event, chan midi.Message, chan control.SynthControl) {
	t.Helper()

	events := make(chan control.Event, 64)
	toSurface := make(chan midi.Message, 64)
	toEngine := make(chan control.SynthControl, 64)
	done := make(chan struct{})

	d := control.New(events, toSurface, toEngine, done)

	return d, events, toSurface, toEngine
}

func runOne(t *testing.T, d *control.Dispatcher, events chan control.Event, ev control.Event) {
	t.Helper()

	go func() {
		events <- ev
		close(events)
	}()

	require.NoError(t, d.Run())
}

func drainHandshake(t *testing.T, toSurface chan midi.Message, toEngine chan control.SynthControl) {
	t.Helper()

	for i := 0; i < 11; i++ {
		<-toSurface
	}

	for i := 0; i < 4; i++ {
		<-toEngine
	}
}

func TestDispatcherStartupHandshake(t *testing.T) {
	events := make(chan control.Event, 1)
	toSurface := make(chan midi.Message, 64)
	toEngine := make(chan control.SynthControl, 64)
	done := make(chan struct{})

	d := control.New(events, toSurface, toEngine, done)

	close(events)

	require.NoError(t, d.Run())

	require.Len(t, toSurface, 11)
	require.Len(t, toEngine, 4)

	first := <-toSurface
	assert.Equal(t, midi.ControlChange{Channel: 0, Control: 0x39, Value: 1}, first)

	cmd := <-toEngine
	assert.Equal(t, control.MasterTune, cmd.Kind)
	assert.InDelta(t, 1.0, cmd.Float, 1e-9)
}

func TestDispatcherVolumeChangeEmitsEngineCommandOnlyOnChange(t *testing.T) {
	d, events, toSurface, toEngine := newDispatcher(t)

	ev := control.Event{
		Source:  control.ControlPanel,
		Message: midi.ControlChange{Channel: 0, Control: 0x07, Value: 100},
	}

	// the same value twice: only the first differs from the shadow.
	go func() {
		events <- ev
		events <- ev
		close(events)
	}()

	require.NoError(t, d.Run())
	drainHandshake(t, toSurface, toEngine)

	cmd := <-toEngine
	assert.Equal(t, control.Oscillator1Volume, cmd.Kind)
	assert.Empty(t, toEngine, "a repeated volume value must not emit again")
}

func TestDispatcherVolumeChangeIgnoredOnOtherChannel(t *testing.T) {
	events := make(chan control.Event, 1)
	toSurface := make(chan midi.Message, 64)
	toEngine := make(chan control.SynthControl, 64)
	done := make(chan struct{})

	d := control.New(events, toSurface, toEngine, done)

	events <- control.Event{
		Source:  control.ControlPanel,
		Message: midi.ControlChange{Channel: 1, Control: 0x07, Value: 100},
	}
	close(events)

	require.NoError(t, d.Run())

	assert.Len(t, toSurface, 11)
	assert.Len(t, toEngine, 4)
}

func TestDispatcherRangeOutsideBucketProducesNoEmission(t *testing.T) {
	d, events, toSurface, toEngine := newDispatcher(t)

	// 25 falls in the gap between the low bucket (<=21) and 32ft (35..38).
	ev := control.Event{
		Source:  control.ControlPanel,
		Message: midi.ControlChange{Channel: 0, Control: 0x30, Value: 25},
	}

	runOne(t, d, events, ev)
	drainHandshake(t, toSurface, toEngine)

	assert.Empty(t, toSurface)
	assert.Empty(t, toEngine)
}

func TestDispatcherOscillatorToggleOnKeyboardNoteIgnored(t *testing.T) {
	d, events, toSurface, toEngine := newDispatcher(t)

	// Note 0x33 only toggles the oscillator when it comes from the
	// control panel, not the keyboard.
	ev := control.Event{
		Source:  control.Keyboard,
		Message: midi.NoteOn{Channel: 0, Note: 0x33, Velocity: 100},
	}

	runOne(t, d, events, ev)
	drainHandshake(t, toSurface, toEngine)

	// The keyboard NoteOn at note 0x33 is handled as a regular note-on
	// command, not the control-panel toggle.
	cmd := <-toEngine
	assert.Equal(t, control.NoteOnCmd, cmd.Kind)
	assert.Empty(t, toSurface)
}

func TestDispatcherOscillatorToggleFromControlPanel(t *testing.T) {
	d, events, toSurface, toEngine := newDispatcher(t)

	ev := control.Event{
		Source:  control.ControlPanel,
		Message: midi.NoteOn{Channel: 0, Note: 0x33, Velocity: 127},
	}

	runOne(t, d, events, ev)
	drainHandshake(t, toSurface, toEngine)

	cmd := <-toEngine
	assert.Equal(t, control.Oscillator1Enable, cmd.Kind)
	assert.False(t, cmd.Enable, "was enabled at startup, so the toggle disables it")

	ack := <-toSurface
	assert.Equal(t, midi.NoteOn{Channel: 0, Note: 0x33, Velocity: 0}, ack)
}

func TestDispatcherKeyboardNoteOnAndOff(t *testing.T) {
	events := make(chan control.Event, 2)
	toSurface := make(chan midi.Message, 64)
	toEngine := make(chan control.SynthControl, 64)
	done := make(chan struct{})

	d := control.New(events, toSurface, toEngine, done)

	events <- control.Event{Source: control.Keyboard, Message: midi.NoteOn{Channel: 0, Note: 60, Velocity: 100}}
	events <- control.Event{Source: control.Keyboard, Message: midi.NoteOff{Channel: 0, Note: 60, OffVelocity: 64}}
	close(events)

	require.NoError(t, d.Run())

	drainHandshake(t, toSurface, toEngine)

	on := <-toEngine
	assert.Equal(t, control.NoteOnCmd, on.Kind)

	off := <-toEngine
	assert.Equal(t, control.NoteOffCmd, off.Kind)
	assert.InDelta(t, on.Float, off.Float, 1e-9)
}
