package typo

import (
	"fmt"
	"time"
)

// Kind discriminates the closed set of action shapes the engine can execute.
type Kind int

const (
	// KindType emits a single character.
	KindType Kind = iota
	// KindBackspace deletes Count characters.
	KindBackspace
	// KindPause waits for Duration before the next action.
	KindPause
)

// Action is a single step of simulated typing. Exactly one payload field is
// meaningful per Kind: Char for KindType, Count for KindBackspace and
// Duration for KindPause. Label carries the human-readable reason used in
// run logs.
type Action struct {
	Kind     Kind
	Char     rune
	Count    int
	Duration time.Duration
	Label    string
}

// Labels attached to produced actions.
const (
	LabelNormal      = "normal"
	LabelCorrection  = "correction"
	LabelTransposed  = "transposed"
	LabelDoubled     = "double strike"
	LabelRecognition = "recognition"
	LabelRetypePrep  = "retype prep"
)

func typeAction(c rune, label string) Action {
	return Action{Kind: KindType, Char: c, Label: label}
}

func backspaceAction(n int) Action {
	return Action{Kind: KindBackspace, Count: n}
}

func pauseAction(d time.Duration, label string) Action {
	return Action{Kind: KindPause, Duration: d, Label: label}
}

// String renders the action for run logs.
func (a Action) String() string {
	switch a.Kind {
	case KindType:
		return fmt.Sprintf("Type(%q, %s)", a.Char, a.Label)
	case KindBackspace:
		return fmt.Sprintf("Backspace(x%d)", a.Count)
	case KindPause:
		return fmt.Sprintf("Pause(%dms, %s)", a.Duration.Milliseconds(), a.Label)
	}
	return fmt.Sprintf("Action(%d)", a.Kind)
}
