package runstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/df5602/midi-synth/internal/runstate"
)

func TestFlagSetIsIdempotentAndClosesDone(t *testing.T) {
	f := runstate.New()

	assert.False(t, f.IsSet())

	select {
	case <-f.Done():
		t.Fatal("Done must not be closed before Set")
	default:
	}

	f.Set()
	f.Set() // must not panic on double-close

	assert.True(t, f.IsSet())

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("Done was not closed after Set")
	}
}

func TestFlagSetFromMultipleGoroutinesIsSafe(t *testing.T) {
	f := runstate.New()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			f.Set()
			done <- struct{}{}
		}()
	}

	for i := 0; i < 8; i++ {
		<-done
	}

	assert.True(t, f.IsSet())
}
