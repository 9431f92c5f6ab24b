package engine

// Mixer gates and scales a single oscillator input: enabled ? input *
// volume : 0.
type Mixer struct {
	osc     *Triangle
	enabled bool
	volume  float64
}

// NewMixer wraps osc, disabled with zero volume until set otherwise.
func NewMixer(osc *Triangle) *Mixer {
	return &Mixer{osc: osc}
}

// SetEnabled toggles the gate.
func (m *Mixer) SetEnabled(enabled bool) { m.enabled = enabled }

// SetVolume sets the linear gain applied when enabled.
func (m *Mixer) SetVolume(volume float64) { m.volume = volume }

// NextSample pulls one sample from the oscillator and applies the gain,
// but only when enabled: a disabled mixer does not advance the
// oscillator's phase at all, matching the reference implementation.
func (m *Mixer) NextSample() float32 {
	if !m.enabled {
		return 0
	}

	return m.osc.NextSample() * float32(m.volume)
}
