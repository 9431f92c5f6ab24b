package control

import (
	"math"

	"github.com/df5602/midi-synth/internal/audioparams"
	"github.com/df5602/midi-synth/internal/midi"
	"github.com/df5602/midi-synth/internal/midierr"
)

// shadow is the dispatcher's running memory of the last-known value for
// each physical control, used to suppress redundant emissions.
type shadow struct {
	masterTune uint8 // raw CC 0x31 value, init 64
	osc1Range  OscillatorRange
	osc1Enable bool
	osc1Volume uint8 // raw CC 0x07 value, init 0
}

// Dispatcher is the single-threaded reactive translator between inbound
// device events and the two outbound streams (control-surface feedback,
// engine commands).
type Dispatcher struct {
	in        <-chan Event
	toSurface chan<- midi.Message
	toEngine  chan<- SynthControl
	done      <-chan struct{}

	state shadow
}

// New builds a Dispatcher reading from in and writing acknowledgement
// messages to toSurface and synth commands to toEngine. done is consulted
// on every outbound send so a process-wide shutdown does not block the
// dispatcher forever on a stalled consumer; all three channels are owned
// by the caller.
func New(in <-chan Event, toSurface chan<- midi.Message, toEngine chan<- SynthControl, done <-chan struct{}) *Dispatcher {
	return &Dispatcher{
		in:        in,
		toSurface: toSurface,
		toEngine:  toEngine,
		done:      done,
		state: shadow{
			masterTune: 64,
			osc1Range:  Range8ft,
			osc1Enable: true,
			osc1Volume: 0,
		},
	}
}

// Run sends the deterministic startup handshake, then services events
// from in until it closes or a send is abandoned because of shutdown. It
// returns the first send error encountered.
func (d *Dispatcher) Run() error {
	if err := d.initialize(); err != nil {
		return err
	}

	for {
		var ev Event

		select {
		case e, ok := <-d.in:
			if !ok {
				return nil
			}

			ev = e
		case <-d.done:
			return nil
		}

		var err error

		switch ev.Source {
		case ControlPanel:
			err = d.handleControlPanel(ev.Message)
		case Keyboard:
			err = d.handleKeyboard(ev.Message)
		}

		if err != nil {
			return err
		}
	}
}

func (d *Dispatcher) emitSurface(m midi.Message) error {
	select {
	case d.toSurface <- m:
		return nil
	case <-d.done:
		return midierr.ErrChannelClosed
	}
}

func (d *Dispatcher) emitEngine(c SynthControl) error {
	select {
	case d.toEngine <- c:
		return nil
	case <-d.done:
		return midierr.ErrChannelClosed
	}
}

// initialize issues the exact startup handshake bytes to the control
// surface and the matching initial SynthControl commands to the engine,
// before any input is read.
func (d *Dispatcher) initialize() error {
	handshake := []midi.Message{
		midi.ControlChange{Channel: 0, Control: 0x39, Value: 1},
		midi.ControlChange{Channel: 0, Control: 0x31, Value: 64},
		midi.ControlChange{Channel: 0, Control: 0x38, Value: 1},
		midi.ControlChange{Channel: 0, Control: 0x30, Value: 72},
		midi.NoteOn{Channel: 0, Note: 0, Velocity: 38},
		midi.NoteOn{Channel: 0, Note: 8, Velocity: 38},
		midi.NoteOn{Channel: 0, Note: 16, Velocity: 38},
		midi.NoteOn{Channel: 0, Note: 24, Velocity: 38},
		midi.NoteOn{Channel: 0, Note: 32, Velocity: 124},
		midi.NoteOn{Channel: 0, Note: 33, Velocity: 38},
		midi.NoteOn{Channel: 0, Note: 0x33, Velocity: 127},
	}

	for _, m := range handshake {
		if err := d.emitSurface(m); err != nil {
			return err
		}
	}

	commands := []SynthControl{
		{Kind: MasterTune, Float: 1.0},
		{Kind: Oscillator1Range, Float: Range8ft.Frequency() / audioparams.SampleRate},
		{Kind: Oscillator1Enable, Enable: true},
		{Kind: Oscillator1Volume, Float: 0.0},
	}

	for _, c := range commands {
		if err := d.emitEngine(c); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatcher) handleControlPanel(msg midi.Message) error {
	switch m := msg.(type) {
	case midi.ControlChange:
		return d.handleControlPanelCC(m)
	case midi.NoteOn:
		if m.Channel == 0 && m.Note == 0x33 {
			return d.toggleOscillator1Enable()
		}

		return nil
	default:
		return nil
	}
}

// handleControlPanelCC applies spec's channel-check table: master tune
// and range accept any channel, volume requires channel 0.
func (d *Dispatcher) handleControlPanelCC(m midi.ControlChange) error {
	switch m.Control {
	case 0x07:
		if m.Channel != 0 {
			return nil
		}

		return d.updateVolume(m.Value)
	case 0x30:
		return d.updateRange(m.Value)
	case 0x31:
		return d.updateMasterTune(m.Value)
	default:
		return nil
	}
}

func (d *Dispatcher) updateVolume(v uint8) error {
	if v == d.state.osc1Volume {
		return nil
	}

	gain := math.Pow(10, 0.05*50*(float64(v)-127)/127)

	if err := d.emitEngine(SynthControl{Kind: Oscillator1Volume, Float: gain}); err != nil {
		return err
	}

	d.state.osc1Volume = v

	return nil
}

func (d *Dispatcher) updateRange(v uint8) error {
	clamped, r, ok := rangeBucket(v)
	if !ok {
		return nil
	}

	if r == d.state.osc1Range {
		return nil
	}

	if err := d.emitEngine(SynthControl{Kind: Oscillator1Range, Float: r.Frequency() / audioparams.SampleRate}); err != nil {
		return err
	}

	if err := d.emitSurface(midi.ControlChange{Channel: 0, Control: 0x30, Value: clamped}); err != nil {
		return err
	}

	d.state.osc1Range = r

	return nil
}

func (d *Dispatcher) updateMasterTune(v uint8) error {
	if v == d.state.masterTune {
		return nil
	}

	tune := (float64(v) - 64.0) * 5.0 / 128.0
	multiplier := math.Pow(2, tune/12.0)

	if err := d.emitEngine(SynthControl{Kind: MasterTune, Float: multiplier}); err != nil {
		return err
	}

	if err := d.emitSurface(midi.ControlChange{Channel: 0, Control: 0x31, Value: v}); err != nil {
		return err
	}

	d.state.masterTune = v

	return nil
}

func (d *Dispatcher) toggleOscillator1Enable() error {
	newState := !d.state.osc1Enable

	if err := d.emitEngine(SynthControl{Kind: Oscillator1Enable, Enable: newState}); err != nil {
		return err
	}

	vel := uint8(0)
	if newState {
		vel = 127
	}

	if err := d.emitSurface(midi.NoteOn{Channel: 0, Note: 0x33, Velocity: vel}); err != nil {
		return err
	}

	d.state.osc1Enable = newState

	return nil
}

func (d *Dispatcher) handleKeyboard(msg midi.Message) error {
	switch m := msg.(type) {
	case midi.NoteOn:
		return d.emitEngine(SynthControl{Kind: NoteOnCmd, Float: noteToPitch(m.Note)})
	case midi.NoteOff:
		return d.emitEngine(SynthControl{Kind: NoteOffCmd, Float: noteToPitch(m.Note)})
	default:
		return nil
	}
}

func noteToPitch(note uint8) float64 {
	return math.Pow(2, (float64(note)-60.0)/12.0)
}
