package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df5602/midi-synth/internal/control"
	"github.com/df5602/midi-synth/internal/engine"
)

func TestSynthesizerSilentUntilConfigured(t *testing.T) {
	commands := make(chan control.SynthControl, 8)
	synth := engine.New(commands)

	for i := 0; i < 10; i++ {
		assert.Equal(t, float32(0), synth.NextSample())
	}
}

func TestSynthesizerAppliesCommandsThenProducesAudio(t *testing.T) {
	commands := make(chan control.SynthControl, 8)
	synth := engine.New(commands)

	commands <- control.SynthControl{Kind: control.MasterTune, Float: 1.0}
	commands <- control.SynthControl{Kind: control.Oscillator1Range, Float: 0.0375}
	commands <- control.SynthControl{Kind: control.Oscillator1Enable, Enable: true}
	commands <- control.SynthControl{Kind: control.Oscillator1Volume, Float: 1.0}
	commands <- control.SynthControl{Kind: control.NoteOnCmd, Float: 1.0}

	// NextSample polls at most one command per call; the 5th call both
	// applies NoteOnCmd (which turns the contour on) and immediately
	// pulls the very first audible sample in the same call.
	var last float32
	for i := 0; i < 5; i++ {
		last = synth.NextSample()
	}

	assert.InDelta(t, 0.0, last, 1e-9)
	assert.InDelta(t, float32(0.15), synth.NextSample(), 1e-9)
}

func TestSynthesizerNoteOffSilencesWhenQueueEmpties(t *testing.T) {
	commands := make(chan control.SynthControl, 8)
	synth := engine.New(commands)

	commands <- control.SynthControl{Kind: control.MasterTune, Float: 1.0}
	commands <- control.SynthControl{Kind: control.Oscillator1Range, Float: 0.0375}
	commands <- control.SynthControl{Kind: control.Oscillator1Enable, Enable: true}
	commands <- control.SynthControl{Kind: control.Oscillator1Volume, Float: 1.0}
	commands <- control.SynthControl{Kind: control.NoteOnCmd, Float: 1.0}

	for i := 0; i < 5; i++ {
		synth.NextSample()
	}

	synth.NextSample()

	commands <- control.SynthControl{Kind: control.NoteOffCmd, Float: 1.0}
	synth.NextSample()

	assert.Equal(t, float32(0), synth.NextSample())
}
