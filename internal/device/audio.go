package device

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"golang.org/x/sys/unix"

	"github.com/df5602/midi-synth/internal/audioparams"
	"github.com/df5602/midi-synth/internal/midierr"
	"github.com/df5602/midi-synth/internal/runstate"
	"github.com/df5602/midi-synth/internal/synthlog"
)

// audioNiceness is the scheduling priority requested for the process
// before the stream starts, to cut the odds of an underrun from being
// descheduled mid-buffer. Most processes lack permission to raise it;
// failure is logged and otherwise ignored.
const audioNiceness = -10

// AudioDriver wraps the host's pull-based stereo float32 output stream
// at the fixed sample rate and frame size the engine runs at.
type AudioDriver struct {
	stream *portaudio.Stream
	term   *runstate.Flag
}

// NewAudioDriver initializes portaudio. Callers must call Terminate on
// shutdown.
func NewAudioDriver(term *runstate.Flag) (*AudioDriver, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %v", midierr.ErrAudioDriver, err)
	}

	return &AudioDriver{term: term}, nil
}

// Terminate shuts portaudio down.
func (a *AudioDriver) Terminate() error {
	return portaudio.Terminate()
}

// Start opens and starts a non-blocking output stream that calls pull
// once per output frame and duplicates the mono result to both channels.
// A panic inside pull is recovered, the remainder of the buffer is
// filled with silence, and the termination flag is set. The callback
// does not stop or abort the stream itself: the stream keeps running,
// and calling pull, until Stop is called.
func (a *AudioDriver) Start(pull func() float32) error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, audioNiceness); err != nil {
		synthlog.Printf(synthlog.Warn, "could not raise scheduling priority for audio", "err", err)
	}

	callback := func(out [][]float32) {
		filled := 0

		defer func() {
			if r := recover(); r != nil {
				synthlog.Error("audio callback panic, filling silence and terminating", fmt.Errorf("%v", r))
				a.term.Set()

				for ch := range out {
					for i := filled; i < len(out[ch]); i++ {
						out[ch][i] = 0
					}
				}
			}
		}()

		for ; filled < len(out[0]); filled++ {
			sample := pull()
			for ch := range out {
				out[ch][filled] = sample
			}
		}
	}

	stream, err := portaudio.OpenDefaultStream(
		0, audioparams.Channels, audioparams.SampleRate, audioparams.FramesPerBuffer, callback,
	)
	if err != nil {
		return fmt.Errorf("%w: open stream: %v", midierr.ErrAudioDriver, err)
	}

	a.stream = stream

	if err := stream.Start(); err != nil {
		return fmt.Errorf("%w: start stream: %v", midierr.ErrAudioDriver, err)
	}

	return nil
}

// Stop stops and closes the stream.
func (a *AudioDriver) Stop() error {
	if a.stream == nil {
		return nil
	}

	if err := a.stream.Stop(); err != nil {
		return fmt.Errorf("%w: %v", midierr.ErrAudioDriver, err)
	}

	return a.stream.Close()
}
