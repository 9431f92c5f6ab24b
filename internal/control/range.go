package control

import "math"

// OscillatorRange is the enumerated set of organ-stop range settings.
type OscillatorRange int

const (
	RangeLow OscillatorRange = iota
	Range32ft
	Range16ft
	Range8ft
	Range4ft
	Range2ft
)

// middleC is 0.5 * A440 * 2^(3/12), the frequency convention the ranges
// are built around.
var middleC = 0.5 * 440.0 * math.Pow(2.0, 3.0/12.0)

// Frequency returns the absolute frequency in Hz for a range.
func (r OscillatorRange) Frequency() float64 {
	switch r {
	case RangeLow:
		return 0.0625 * middleC
	case Range32ft:
		return 0.25 * middleC
	case Range16ft:
		return 0.5 * middleC
	case Range8ft:
		return middleC
	case Range4ft:
		return 2.0 * middleC
	case Range2ft:
		return 4.0 * middleC
	default:
		return middleC
	}
}

// rangeBucket maps a raw CC 0x30 value to (clamped value, range, ok). ok
// is false for values that fall in a gap between buckets, which must
// produce no emission at all.
func rangeBucket(v uint8) (clamped uint8, r OscillatorRange, ok bool) {
	switch {
	case v <= 21:
		return 21, RangeLow, true
	case v >= 35 && v <= 38:
		return v, Range32ft, true
	case v >= 53 && v <= 56:
		return v, Range16ft, true
	case v >= 70 && v <= 73:
		return v, Range8ft, true
	case v >= 88 && v <= 91:
		return v, Range4ft, true
	case v >= 105 && v <= 127:
		return 105, Range2ft, true
	default:
		return 0, 0, false
	}
}
