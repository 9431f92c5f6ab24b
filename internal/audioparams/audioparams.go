// Package audioparams holds the fixed audio format constants shared by
// the dispatcher (which computes phase increments in cycles/sample) and
// the device audio driver.
package audioparams

const (
	// SampleRate is the host audio driver's fixed sample rate in Hz.
	SampleRate = 44100.0

	// FramesPerBuffer is the pull-based callback's fixed frame size.
	FramesPerBuffer = 64

	// Channels is the number of interleaved output channels (stereo,
	// duplicated from the mono engine output).
	Channels = 2
)
