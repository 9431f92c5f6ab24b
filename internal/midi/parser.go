package midi

const cableCount = 16

// EventPacket is a (cable, message) pair, the unit decoded/encoded by the
// USB-MIDI codec.
type EventPacket struct {
	Cable   uint8
	Message Message
}

// ParseStatusKind tags the outcome of one Parser.Parse call.
type ParseStatusKind int

const (
	// Incomplete means fewer than 4 bytes were available, or a SysEx
	// continuation packet was consumed and more bytes are needed.
	Incomplete ParseStatusKind = iota
	// Complete carries a fully decoded EventPacket.
	Complete
	// Unknown marks an unrecognized code index number.
	Unknown
	// MalformedPacket marks a SysEx termination on a cable that was
	// never started (by a continuation packet, or by a 0xF0 start byte
	// at the head of the terminator packet itself).
	MalformedPacket
)

// ParseStatus is the result of one Parse call.
type ParseStatus struct {
	Kind   ParseStatusKind
	Packet EventPacket // valid iff Kind == Complete
}

// sysExIDState is the tagged variant for the per-cable SysEx manufacturer
// id state machine: Empty -> NeedTwoMore -> NeedOneMore(a) -> TwoByte(a,b),
// or Empty -> OneByte(b). Once in oneByte or twoByte, further bytes are
// payload, not id.
type sysExIDState int

const (
	sysExEmpty sysExIDState = iota
	sysExNeedTwoMore
	sysExNeedOneMore
	sysExOneByte
	sysExTwoByte
)

type sysExID struct {
	state sysExIDState
	a, b  uint8
}

// giveByte feeds one SysEx data byte into the id FSM. It returns true if
// the byte was consumed as part of the id (and so must not be appended to
// the payload buffer), false if the FSM had already reached a terminal
// state and the byte belongs to the payload.
func (s *sysExID) giveByte(b uint8) bool {
	switch s.state {
	case sysExOneByte, sysExTwoByte:
		return false
	case sysExEmpty:
		if b == 0 {
			s.state = sysExNeedTwoMore
		} else {
			s.state = sysExOneByte
			s.a = b
		}
	case sysExNeedTwoMore:
		s.state = sysExNeedOneMore
		s.a = b
	case sysExNeedOneMore:
		s.state = sysExTwoByte
		s.b = b
	}

	return true
}

// getIDAndReset returns the captured id, defaulting to OneByte(0) if
// termination happened before the id resolved, and resets the FSM to
// Empty.
func (s *sysExID) getIDAndReset() SystemExclusiveID {
	var id SystemExclusiveID

	switch s.state {
	case sysExOneByte:
		id = OneByteID(s.a)
	case sysExTwoByte:
		id = TwoByteID(s.a, s.b)
	default: // Empty, NeedTwoMore, NeedOneMore
		id = OneByteID(0)
	}

	*s = sysExID{}

	return id
}

// Parser is a stateful USB-MIDI event-packet decoder. It holds
// independent SysEx assembly state for each of the 16 virtual cables.
// The zero value is ready to use.
type Parser struct {
	ids      [cableCount]sysExID
	payloads [cableCount][]byte
	started  [cableCount]bool
}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse consumes 4-byte event packets from buf, returning the outcome and
// the number of bytes consumed. If buf holds fewer than 4 bytes it
// returns (Incomplete, 0) without touching state. It may walk multiple
// packets in one call when they are all SysEx continuations, stopping at
// the first Complete, Unknown, or MalformedPacket result. An unknown code
// index number consumes one byte beyond the packets already walked, so
// the caller can resynchronize.
func (p *Parser) Parse(buf []byte) (ParseStatus, int) {
	if len(buf) < 4 {
		return ParseStatus{Kind: Incomplete}, 0
	}

	n := 0
	status := ParseStatus{Kind: Unknown}

	for len(buf)-n >= 4 {
		cable := (buf[n] & 0xF0) >> 4
		cin := buf[n] & 0x0F

		switch {
		case isChannelCIN(cin):
			msg := decodeChannelMessage(cin, buf[n+1], buf[n+2], buf[n+3])
			status = ParseStatus{Kind: Complete, Packet: EventPacket{Cable: cable, Message: msg}}
			n += 4
		case cin == 0x4:
			status = p.systemExclusive(cable, buf[n+1:n+4], false)
			n += 4
		case cin == 0x5:
			status = p.systemExclusive(cable, buf[n+1:n+2], true)
			n += 4
		case cin == 0x6:
			status = p.systemExclusive(cable, buf[n+1:n+3], true)
			n += 4
		case cin == 0x7:
			status = p.systemExclusive(cable, buf[n+1:n+4], true)
			n += 4
		default:
			return ParseStatus{Kind: Unknown}, n + 1
		}

		if status.Kind != Incomplete {
			break
		}
	}

	return status, n
}

// systemExclusive feeds data bytes into cable's id FSM and payload
// buffer. If terminate is set, it closes out the SysEx message for that
// cable and returns Complete (or MalformedPacket if the cable was never
// started); either way the FSM and buffer are reset. A terminator packet
// whose first byte is the 0xF0 start byte carries a whole message and
// counts as started.
func (p *Parser) systemExclusive(cable uint8, data []byte, terminate bool) ParseStatus {
	if terminate && data[0] == 0xF0 {
		p.started[cable] = true
	}

	for _, b := range data {
		if b > 0x7F {
			continue
		}

		if !p.ids[cable].giveByte(b) {
			p.payloads[cable] = append(p.payloads[cable], b)
		}
	}

	if !terminate {
		p.started[cable] = true

		return ParseStatus{Kind: Incomplete}
	}

	payload := p.payloads[cable]
	p.payloads[cable] = nil
	id := p.ids[cable].getIDAndReset()

	var status ParseStatus
	if p.started[cable] {
		status = ParseStatus{
			Kind: Complete,
			Packet: EventPacket{
				Cable:   cable,
				Message: SystemExclusive{ID: id, Payload: payload},
			},
		}
	} else {
		status = ParseStatus{Kind: MalformedPacket}
	}

	p.started[cable] = false

	return status
}
