// Package engine implements the real-time audio signal graph: a triangle
// oscillator feeding a mixer feeding a loudness contour, plus the
// low-note-priority NoteSelector allocator. Every setter here is called
// exclusively from the audio callback goroutine after a non-blocking
// channel poll, so none of it needs locking.
package engine

// Triangle is a phase-continuous triangle-wave oscillator. Its per-sample
// phase increment ("base") is the product of three independently settable
// factors: master tune, range, and note pitch multiplier. Changing any
// factor folds the phase accumulated so far into phase_offset so the
// waveform does not jump.
type Triangle struct {
	masterTune float64
	rangeInc   float64
	note       float64
	base       float64

	sampleCounter float64
	phaseOffset   float64
}

// NewTriangle constructs an oscillator with the given initial master tune
// and range (note defaults to 1.0, the unison pitch multiplier).
func NewTriangle(masterTune, rangeInc float64) *Triangle {
	return &Triangle{
		masterTune:  masterTune,
		rangeInc:    rangeInc,
		note:        1.0,
		base:        masterTune * rangeInc,
		phaseOffset: 0.25,
	}
}

// foldPhase preserves phase continuity across a parameter change: it adds
// the phase accumulated under the old base into phase_offset and resets
// the sample counter, then the caller installs the new base.
func (t *Triangle) foldPhase() {
	t.phaseOffset += t.sampleCounter * t.base
	t.sampleCounter = 0
}

// SetMasterTune updates the master tune multiplier without discontinuity.
func (t *Triangle) SetMasterTune(masterTune float64) {
	t.foldPhase()
	t.masterTune = masterTune
	t.base = t.masterTune * t.rangeInc * t.note
}

// SetRange updates the range phase increment without discontinuity.
func (t *Triangle) SetRange(rangeInc float64) {
	t.foldPhase()
	t.rangeInc = rangeInc
	t.base = t.masterTune * t.rangeInc * t.note
}

// SetNote updates the note pitch multiplier without discontinuity.
func (t *Triangle) SetNote(note float64) {
	t.foldPhase()
	t.note = note
	t.base = t.masterTune * t.rangeInc * t.note
}

// NextSample advances the oscillator by one sample and returns the
// triangle waveform value, always in [-1, 1].
func (t *Triangle) NextSample() float32 {
	phase := t.phaseOffset + t.sampleCounter*t.base

	if phase >= 1.0 {
		phase -= 1.0
		t.sampleCounter = 0
		t.phaseOffset = phase
	}

	t.sampleCounter++

	var out float64
	if phase < 0.5 {
		out = 4.0*phase - 1.0
	} else {
		out = 1.0 - 4.0*(phase-0.5)
	}

	if out > 1.0 {
		out = 1.0
	} else if out < -1.0 {
		out = -1.0
	}

	return float32(out)
}
