package sink

import (
	"math/rand"
	"time"
)

// Simple emits each character as one atomic tap of the key combination
// producing it. The fastest strategy, and the fallback when precise modifier
// sequencing fails.
type Simple struct {
	dev Device
	rng *rand.Rand
}

// NewSimple creates a simple sink over dev. A nil rng falls back to a
// time-seeded source.
func NewSimple(dev Device, rng *rand.Rand) *Simple {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simple{dev: dev, rng: rng}
}

func (s *Simple) EmitChar(c rune) error {
	if handled, err := emitSpecialChar(s.dev, c); handled {
		return err
	}
	return s.dev.Tap(c)
}

func (s *Simple) EmitBackspace(n int) error {
	return backspaceBurst(s.dev, s.rng, n)
}

func (s *Simple) EmitSpecial(k SpecialKey) error {
	return s.dev.TapSpecial(k)
}
