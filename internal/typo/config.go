package typo

// Class identifies one of the three supported mistake classes.
type Class string

const (
	// ClassAdjacent substitutes a physically neighboring key.
	ClassAdjacent Class = "adjacent"
	// ClassTransposition swaps two consecutive characters.
	ClassTransposition Class = "transposition"
	// ClassDoubleStrike strikes the same key twice.
	ClassDoubleStrike Class = "double_strike"
)

// Config holds every tunable of the typo model.
type Config struct {
	// TypoProb is the per-character mistake probability in basis points
	// (1/10000): 30 means 0.30%.
	TypoProb int `toml:"typo_prob" json:"typo_prob" yaml:"typo_prob"`

	// RevisionProb is the probability, in percent, that a realized mistake
	// is noticed and corrected.
	RevisionProb int `toml:"revision_prob" json:"revision_prob" yaml:"revision_prob"`

	// Per-class toggles.
	AdjacentEnabled      bool `toml:"adjacent_enabled" json:"adjacent_enabled" yaml:"adjacent_enabled"`
	TranspositionEnabled bool `toml:"transposition_enabled" json:"transposition_enabled" yaml:"transposition_enabled"`
	DoubleStrikeEnabled  bool `toml:"double_strike_enabled" json:"double_strike_enabled" yaml:"double_strike_enabled"`
}

// DefaultConfig returns the stock profile: rare adjacent-key slips, almost
// always corrected.
func DefaultConfig() Config {
	return Config{
		TypoProb:        30,
		RevisionProb:    85,
		AdjacentEnabled: true,
	}
}

// typoProbability normalizes TypoProb to [0, 1].
func (c Config) typoProbability() float64 {
	return clampUnit(float64(c.TypoProb) / 10000)
}

// revisionProbability normalizes RevisionProb to [0, 1].
func (c Config) revisionProbability() float64 {
	return clampUnit(float64(c.RevisionProb) / 100)
}

// enabledClasses returns the active mistake classes in declaration order.
func (c Config) enabledClasses() []Class {
	var classes []Class
	if c.AdjacentEnabled {
		classes = append(classes, ClassAdjacent)
	}
	if c.TranspositionEnabled {
		classes = append(classes, ClassTransposition)
	}
	if c.DoubleStrikeEnabled {
		classes = append(classes, ClassDoubleStrike)
	}
	return classes
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
