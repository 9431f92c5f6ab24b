package engine

import "github.com/df5602/midi-synth/internal/control"

// Synthesizer is the audio engine: a single consumer of SynthControl
// commands plus a sample pull from the audio callback. It is not safe for
// concurrent use; NextSample must be called from exactly one goroutine,
// the audio callback.
type Synthesizer struct {
	osc      *Triangle
	mixer    *Mixer
	contour  *LoudnessContour
	notes    *NoteSelector
	commands <-chan control.SynthControl
}

// New builds a Synthesizer reading from commands. The oscillator
// starts at master tune 1.0 and range 0 (silent until the dispatcher's
// startup handshake arrives).
func New(commands <-chan control.SynthControl) *Synthesizer {
	osc := NewTriangle(1.0, 0.0)
	mixer := NewMixer(osc)
	contour := NewLoudnessContour(mixer)

	return &Synthesizer{
		osc:      osc,
		mixer:    mixer,
		contour:  contour,
		notes:    NewNoteSelector(),
		commands: commands,
	}
}

// NextSample polls for at most one pending command, applies it, then
// pulls one sample through the signal graph. It must never block,
// allocate, or lock.
func (s *Synthesizer) NextSample() float32 {
	select {
	case c := <-s.commands:
		s.apply(c)
	default:
	}

	return s.contour.NextSample()
}

func (s *Synthesizer) apply(c control.SynthControl) {
	switch c.Kind {
	case control.MasterTune:
		s.osc.SetMasterTune(c.Float)
	case control.Oscillator1Range:
		s.osc.SetRange(c.Float)
	case control.Oscillator1Enable:
		s.mixer.SetEnabled(c.Enable)
	case control.Oscillator1Volume:
		s.mixer.SetVolume(c.Float)
	case control.NoteOnCmd:
		lowest := s.notes.TurnOnNote(c.Float)
		s.osc.SetNote(lowest)
		s.contour.TriggerOn()
	case control.NoteOffCmd:
		if lowest, ok := s.notes.TurnOffNote(c.Float); ok {
			s.osc.SetNote(lowest)
		} else {
			s.contour.TriggerOff()
		}
	}
}
