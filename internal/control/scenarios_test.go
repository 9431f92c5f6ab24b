package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df5602/midi-synth/internal/control"
	"github.com/df5602/midi-synth/internal/midi"
)

// TestScenarioMasterTuneMapping is end-to-end scenario 5: three CC(0x31,
// v) events in sequence on one dispatcher, each differing from the
// shadow value left by the previous one, so all three emit.
func TestScenarioMasterTuneMapping(t *testing.T) {
	cases := []struct {
		value uint8
		want  float64
	}{
		{0, 0.865537},
		{64, 1.0},
		{127, 1.152749},
	}

	d, events, toSurface, toEngine := newDispatcher(t)

	go func() {
		for _, c := range cases {
			events <- control.Event{
				Source:  control.ControlPanel,
				Message: midi.ControlChange{Channel: 0, Control: 0x31, Value: c.value},
			}
		}

		close(events)
	}()

	require.NoError(t, d.Run())

	drainHandshake(t, toSurface, toEngine)

	for _, c := range cases {
		ack := <-toSurface
		assert.Equal(t, midi.ControlChange{Channel: 0, Control: 0x31, Value: c.value}, ack)

		cmd := <-toEngine
		assert.Equal(t, control.MasterTune, cmd.Kind)
		assert.InDelta(t, c.want, cmd.Float, 1e-6)
	}
}

// TestScenarioRangeBucket is end-to-end scenario 6.
func TestScenarioRangeBucket(t *testing.T) {
	d, events, toSurface, toEngine := newDispatcher(t)

	ev := control.Event{
		Source:  control.ControlPanel,
		Message: midi.ControlChange{Channel: 0, Control: 0x30, Value: 20},
	}

	runOne(t, d, events, ev)
	drainHandshake(t, toSurface, toEngine)

	ack := <-toSurface
	assert.Equal(t, midi.ControlChange{Channel: 0, Control: 0x30, Value: 21}, ack)

	cmd := <-toEngine
	assert.Equal(t, control.Oscillator1Range, cmd.Kind)
	assert.InDelta(t, control.RangeLow.Frequency()/44100.0, cmd.Float, 1e-9)
}

// TestScenarioRangeBucketUnchangedValueEmitsNothing covers the second
// half of scenario 6: a first CC(0x30, 54) moves the range from the
// startup 8ft to 16ft, then CC(0x30, 55) lands in the same 53..=56
// bucket, so no emission follows.
func TestScenarioRangeBucketUnchangedValueEmitsNothing(t *testing.T) {
	d, events, toSurface, toEngine := newDispatcher(t)

	first := control.Event{
		Source:  control.ControlPanel,
		Message: midi.ControlChange{Channel: 0, Control: 0x30, Value: 54},
	}
	second := control.Event{
		Source:  control.ControlPanel,
		Message: midi.ControlChange{Channel: 0, Control: 0x30, Value: 55},
	}

	go func() {
		events <- first
		events <- second
		close(events)
	}()

	require.NoError(t, d.Run())

	drainHandshake(t, toSurface, toEngine)

	ack := <-toSurface
	assert.Equal(t, midi.ControlChange{Channel: 0, Control: 0x30, Value: 54}, ack)

	cmd := <-toEngine
	assert.Equal(t, control.Oscillator1Range, cmd.Kind)

	assert.Empty(t, toSurface)
	assert.Empty(t, toEngine)
}

// TestScenarioKeyboardNoteMath is end-to-end scenario 7.
func TestScenarioKeyboardNoteMath(t *testing.T) {
	cases := []struct {
		note uint8
		want float64
	}{
		{60, 1.0},
		{72, 2.0},
		{48, 0.5},
		{36, 0.25},
	}

	for _, c := range cases {
		d, events, toSurface, toEngine := newDispatcher(t)

		ev := control.Event{
			Source:  control.Keyboard,
			Message: midi.NoteOn{Channel: 0, Note: c.note, Velocity: 100},
		}

		runOne(t, d, events, ev)
		drainHandshake(t, toSurface, toEngine)

		cmd := <-toEngine
		assert.Equal(t, control.NoteOnCmd, cmd.Kind)
		assert.InDelta(t, c.want, cmd.Float, 1e-9)
	}
}
