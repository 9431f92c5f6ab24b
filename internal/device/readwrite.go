package device

import (
	"context"
	"errors"

	"github.com/df5602/midi-synth/internal/control"
	"github.com/df5602/midi-synth/internal/midi"
	"github.com/df5602/midi-synth/internal/midierr"
	"github.com/df5602/midi-synth/internal/runstate"
	"github.com/df5602/midi-synth/internal/synthlog"
)

const readBufSize = 256

// Listen drains dev with a short timeout, feeding bytes through a fresh
// Parser and forwarding decoded messages tagged with source onto out. It
// returns when term is set or a transport error occurs; a timeout is not
// an error, it just loops.
func Listen(ctx context.Context, dev UsbMidiDevice, source control.Source, out chan<- control.Event, term *runstate.Flag) error {
	parser := midi.NewParser()
	buf := make([]byte, readBufSize)
	begin, end := 0, 0

	for !term.IsSet() {
		n, err := dev.ReadBulk(ctx, buf[end:], ReadTimeout)
		if err != nil {
			return err
		}

		end += n

		for begin < end {
			status, consumed := parser.Parse(buf[begin:end])

			switch status.Kind {
			case midi.Complete:
				select {
				case out <- control.Event{Message: status.Packet.Message, Source: source}:
				case <-term.Done():
					return nil
				}

				begin += consumed
			case midi.Incomplete:
				begin += consumed

				goto drained
			case midi.Unknown:
				synthlog.Printf(synthlog.Warn, "unknown midi packet", "source", source)

				begin += consumed
			case midi.MalformedPacket:
				synthlog.Printf(synthlog.Warn, "malformed sysex packet", "source", source)

				begin += consumed
			}
		}

	drained:
		if begin >= end {
			begin, end = 0, 0
		}
	}

	return nil
}

// Write is the control-surface writer loop: it serializes and writes
// every message received on in until the channel closes or term is set.
func Write(ctx context.Context, dev UsbMidiDevice, in <-chan midi.Message, term *runstate.Flag) error {
	for {
		var m midi.Message

		select {
		case msg, ok := <-in:
			if !ok {
				return nil
			}

			m = msg
		case <-term.Done():
			return nil
		}

		buf := midi.SerializeBytes(m, 0)

		if _, err := dev.WriteBulk(ctx, buf, WriteTimeout); err != nil {
			if errors.Is(err, midierr.ErrOperationNotSupported) {
				continue
			}

			return err
		}
	}
}
