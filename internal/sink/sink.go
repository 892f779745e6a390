// Package sink defines the key-emission capability the typing engine drives
// and the built-in emission strategies.
//
// The engine only ever sees the Sink interface. The concrete strategies
// differ in how a character becomes keystrokes: Simple taps the key that
// produces the character atomically, Precise sequences the shift modifier
// explicitly with jittered hold times, Null swallows everything (dry runs).
// Both real strategies sit on top of a low-level Device, so platform key
// injection, terminal demos and in-memory test buffers all plug in the same
// way.
package sink

import (
	"math/rand"
	"time"
)

// SpecialKey names the non-printing keys a sink can emit.
type SpecialKey int

const (
	KeyEnter SpecialKey = iota
	KeyTab
	KeySpace
	KeyBackspace
)

// String returns the key name for logs.
func (k SpecialKey) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyTab:
		return "tab"
	case KeySpace:
		return "space"
	case KeyBackspace:
		return "backspace"
	}
	return "unknown"
}

// Sink is the emission capability consumed by the engine. Implementations
// are not required to be safe for concurrent use; the engine guarantees at
// most one run emits at any time.
type Sink interface {
	// EmitChar emits one printable character.
	EmitChar(c rune) error

	// EmitBackspace emits n deletions as a burst, separating consecutive
	// deletions with a short randomized gap.
	EmitBackspace(n int) error

	// EmitSpecial emits a non-printing key.
	EmitSpecial(k SpecialKey) error
}

// Device is the low-level keystroke primitive a concrete sink drives.
// Platform injectors, terminal writers and test buffers implement it.
type Device interface {
	// Tap atomically presses and releases the key combination producing c.
	Tap(c rune) error

	// TapSpecial atomically presses and releases a special key.
	TapSpecial(k SpecialKey) error

	// PressShift and ReleaseShift drive the shift modifier for precise
	// emission sequencing.
	PressShift() error
	ReleaseShift() error
}

// Backspace burst pacing: deletions within one burst are separated by a
// gaussian gap floored so the burst still reads as distinct keystrokes.
const (
	backspaceGapMeanMS  = 40.0
	backspaceGapSigmaMS = 8.0
	backspaceGapFloorMS = 15.0
)

// backspaceBurst emits n deletions on dev with randomized inter-deletion
// gaps. No gap follows the last deletion.
func backspaceBurst(dev Device, rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		if err := dev.TapSpecial(KeyBackspace); err != nil {
			return err
		}
		if i < n-1 {
			sleepGauss(rng, backspaceGapMeanMS, backspaceGapSigmaMS, backspaceGapFloorMS)
		}
	}
	return nil
}

// sleepGauss sleeps a gaussian duration in milliseconds, floored.
func sleepGauss(rng *rand.Rand, mean, sigma, floor float64) {
	ms := mean + rng.NormFloat64()*sigma
	if ms < floor {
		ms = floor
	}
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

// emitSpecialChar routes whitespace characters to their special keys.
// Returns handled=false for ordinary printable characters.
func emitSpecialChar(dev Device, c rune) (handled bool, err error) {
	switch c {
	case '\n':
		return true, dev.TapSpecial(KeyEnter)
	case '\t':
		return true, dev.TapSpecial(KeyTab)
	case ' ':
		return true, dev.TapSpecial(KeySpace)
	}
	return false, nil
}
