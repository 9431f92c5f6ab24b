// Package control implements the reactive dispatcher that sits between
// the two MIDI device sources and the audio engine: it owns shadow state
// for each logical control, emits acknowledgement LED/knob feedback to
// the control surface, and emits typed SynthControl commands to the
// engine.
package control

import (
	"fmt"

	"github.com/df5602/midi-synth/internal/midi"
)

// Source tags which physical device produced an inbound MIDI message.
type Source int

const (
	Keyboard Source = iota
	ControlPanel
)

func (s Source) String() string {
	if s == Keyboard {
		return "keyboard"
	}

	return "control-panel"
}

// Event pairs a decoded MIDI message with the device it came from.
type Event struct {
	Message midi.Message
	Source  Source
}

// SynthControlKind tags the SynthControl variant.
type SynthControlKind int

const (
	MasterTune SynthControlKind = iota
	Oscillator1Range
	Oscillator1Enable
	Oscillator1Volume
	NoteOnCmd
	NoteOffCmd
)

// SynthControl is the tagged variant of commands the dispatcher emits to
// the audio engine.
type SynthControl struct {
	Kind   SynthControlKind
	Float  float64 // MasterTune multiplier, Oscillator1Range phase-increment, Oscillator1Volume linear gain, Note{On,Off} pitch multiplier
	Enable bool    // Oscillator1Enable
}

func (c SynthControl) String() string {
	switch c.Kind {
	case MasterTune:
		return fmt.Sprintf("MasterTune(%g)", c.Float)
	case Oscillator1Range:
		return fmt.Sprintf("Oscillator1Range(%g)", c.Float)
	case Oscillator1Enable:
		return fmt.Sprintf("Oscillator1Enable(%v)", c.Enable)
	case Oscillator1Volume:
		return fmt.Sprintf("Oscillator1Volume(%g)", c.Float)
	case NoteOnCmd:
		return fmt.Sprintf("NoteOn(%g)", c.Float)
	case NoteOffCmd:
		return fmt.Sprintf("NoteOff(%g)", c.Float)
	default:
		return "SynthControl(?)"
	}
}
