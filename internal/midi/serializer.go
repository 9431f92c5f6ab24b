package midi

import "iter"

// Serialize returns a lazy sequence of bytes that, written to the wire,
// round-trips through Parser.Parse to an equivalent EventPacket on the
// given cable. For channel messages this yields exactly one 4-byte
// packet. For SystemExclusive it yields a stream of 4-byte packets: CIN
// 0x4 for each full 3-byte chunk of `F0 <id-bytes> <payload> F7`, and one
// terminator packet carrying the final 1..3 bytes with CIN 0x5/0x6/0x7.
func Serialize(msg Message, cable uint8) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		switch m := msg.(type) {
		case SystemExclusive:
			serializeSysEx(m, cable, yield)
		default:
			serializeChannelMessage(msg, cable, yield)
		}
	}
}

// SerializeBytes collects Serialize's output into a slice, for callers
// (the control-surface writer, tests) that want a concrete buffer rather
// than an iterator.
func SerializeBytes(msg Message, cable uint8) []byte {
	var out []byte
	for b := range Serialize(msg, cable) {
		out = append(out, b)
	}

	return out
}

func emitPacket(yield func(byte) bool, cable, cin, b1, b2, b3 uint8) bool {
	header := (cable << 4) | (cin & 0x0F)

	return yield(header) && yield(b1) && yield(b2) && yield(b3)
}

func serializeChannelMessage(msg Message, cable uint8, yield func(byte) bool) {
	switch m := msg.(type) {
	case NoteOn:
		emitPacket(yield, cable, 0x9, 0x90|m.Channel, m.Note&0x7F, m.Velocity&0x7F)
	case NoteOff:
		emitPacket(yield, cable, 0x8, 0x80|m.Channel, m.Note&0x7F, m.OffVelocity&0x7F)
	case PolyphonicKeyPressure:
		emitPacket(yield, cable, 0xA, 0xA0|m.Channel, m.Note&0x7F, m.Pressure&0x7F)
	case ControlChange:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, m.Control&0x7F, m.Value&0x7F)
	case ProgramChange:
		emitPacket(yield, cable, 0xC, 0xC0|m.Channel, m.Program&0x7F, 0)
	case ChannelPressure:
		emitPacket(yield, cable, 0xD, 0xD0|m.Channel, m.Pressure&0x7F, 0)
	case PitchBend:
		lsb := uint8(m.Value & 0x7F)       //nolint:gosec
		msb := uint8((m.Value >> 7) & 0x7F) //nolint:gosec
		emitPacket(yield, cable, 0xE, 0xE0|m.Channel, lsb, msb)
	case AllSoundOff:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 120, 0)
	case ResetAllControllers:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 121, 0)
	case LocalControl:
		v := uint8(0)
		if m.On {
			v = 127
		}

		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 122, v)
	case AllNotesOff:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 123, 0)
	case OmniModeOff:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 124, 0)
	case OmniModeOn:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 125, 0)
	case MonoModeOn:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 126, m.ChannelCount&0x0F)
	case PolyModeOn:
		emitPacket(yield, cable, 0xB, 0xB0|m.Channel, 127, 0)
	}
}

func serializeSysEx(m SystemExclusive, cable uint8, yield func(byte) bool) {
	frame := append([]byte{0xF0}, m.ID.Bytes()...)
	frame = append(frame, m.Payload...)
	frame = append(frame, 0xF7)

	for len(frame) > 3 {
		if !emitPacket(yield, cable, 0x4, frame[0], frame[1], frame[2]) {
			return
		}

		frame = frame[3:]
	}

	switch len(frame) {
	case 0:
		emitPacket(yield, cable, 0x5, 0, 0, 0)
	case 1:
		emitPacket(yield, cable, 0x5, frame[0], 0, 0)
	case 2:
		emitPacket(yield, cable, 0x6, frame[0], frame[1], 0)
	case 3:
		emitPacket(yield, cable, 0x7, frame[0], frame[1], frame[2])
	}
}
