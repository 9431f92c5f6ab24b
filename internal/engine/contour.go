package engine

// LoudnessContour is a zero-order on/off gate sitting after the mixer.
// Toggling On does not ramp; a future envelope generator would plug in
// here behind the same single-boolean-trigger interface.
type LoudnessContour struct {
	input *Mixer
	on    bool
}

// NewLoudnessContour wraps input, off by default.
func NewLoudnessContour(input *Mixer) *LoudnessContour {
	return &LoudnessContour{input: input}
}

// TriggerOn opens the gate. Called on any NoteOn.
func (c *LoudnessContour) TriggerOn() { c.on = true }

// TriggerOff closes the gate. Called only when the note queue becomes
// empty.
func (c *LoudnessContour) TriggerOff() { c.on = false }

// NextSample applies the gate: when on, pulls and returns one sample from
// the mixer; when off, returns 0 without pulling (the mixer, and in turn
// the oscillator, does not advance).
func (c *LoudnessContour) NextSample() float32 {
	if !c.on {
		return 0
	}

	return c.input.NextSample()
}
