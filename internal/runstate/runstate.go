// Package runstate holds the process-wide termination flag consulted by
// every reader loop, the surface writer, and the audio callback.
package runstate

import "sync/atomic"

// Flag is a one-shot, concurrency-safe termination signal. Use New to
// construct one; the zero value has a nil Done channel.
type Flag struct {
	set  atomic.Bool
	done chan struct{}
}

// New returns a ready-to-use Flag.
func New() *Flag {
	return &Flag{
		done: make(chan struct{}),
	}
}

// Set requests termination. Safe to call more than once and from multiple
// goroutines (the signal handler, any reader exiting, the audio callback's
// recover path).
func (f *Flag) Set() {
	if f.set.CompareAndSwap(false, true) {
		close(f.done)
	}
}

// IsSet reports whether termination has been requested.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Done returns a channel closed once Set has been called, for use in
// select statements alongside channel receives.
func (f *Flag) Done() <-chan struct{} {
	return f.done
}
