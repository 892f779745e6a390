package sink

import (
	"log/slog"
	"math/rand"
	"time"

	"humantype/internal/keymap"
)

// Shift sequencing jitter for precise emission. Hold and release gaps are
// gaussian with a floor so the modifier always registers before the key.
const (
	shiftHoldMeanMS  = 15.0
	shiftHoldSigmaMS = 5.0
	shiftHoldFloorMS = 5.0

	shiftReleaseMeanMS  = 10.0
	shiftReleaseSigmaMS = 3.0
	shiftReleaseFloorMS = 3.0
)

// Precise emits shifted characters as an explicit press-shift, tap-base-key,
// release-shift sequence with jittered hold times, so downstream observers
// see the same modifier traffic a human produces.
//
// When any step of the sequence fails, the character degrades to a simple
// atomic tap. Degradation is per character and non-fatal: one flaky shift
// event does not abort the run.
type Precise struct {
	dev Device
	rng *rand.Rand
	log *slog.Logger
}

// NewPrecise creates a precise sink over dev. A nil rng falls back to a
// time-seeded source; a nil logger falls back to slog.Default.
func NewPrecise(dev Device, rng *rand.Rand, logger *slog.Logger) *Precise {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Precise{dev: dev, rng: rng, log: logger.With("component", "sink")}
}

func (p *Precise) EmitChar(c rune) error {
	if handled, err := emitSpecialChar(p.dev, c); handled {
		return err
	}
	if !keymap.RequiresShift(c) {
		return p.dev.Tap(c)
	}

	if err := p.emitShifted(c); err != nil {
		p.log.Warn("precise emission failed, falling back to simple tap",
			"char", string(c), "error", err)
		return p.dev.Tap(c)
	}
	return nil
}

// emitShifted runs the full modifier sequence for one shifted character.
// The shift key is released best-effort on failure so it cannot stay stuck.
func (p *Precise) emitShifted(c rune) error {
	base := keymap.BaseKey(c)

	if err := p.dev.PressShift(); err != nil {
		return err
	}
	sleepGauss(p.rng, shiftHoldMeanMS, shiftHoldSigmaMS, shiftHoldFloorMS)

	if err := p.dev.Tap(base); err != nil {
		p.dev.ReleaseShift()
		return err
	}
	sleepGauss(p.rng, shiftReleaseMeanMS, shiftReleaseSigmaMS, shiftReleaseFloorMS)

	return p.dev.ReleaseShift()
}

func (p *Precise) EmitBackspace(n int) error {
	return backspaceBurst(p.dev, p.rng, n)
}

func (p *Precise) EmitSpecial(k SpecialKey) error {
	return p.dev.TapSpecial(k)
}
