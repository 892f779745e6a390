// Package textprep normalizes source text before it reaches the typing
// models, so the models only ever see the characters that will actually be
// typed.
package textprep

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	newlineRuns = regexp.MustCompile(`\n+`)
	spaceRuns   = regexp.MustCompile(` {2,}`)
)

// NewlineMode controls what happens to line breaks in the source text.
type NewlineMode string

const (
	// NewlineKeep types line breaks as enter presses.
	NewlineKeep NewlineMode = "keep"

	// NewlineSpace replaces each line break run with a single space.
	NewlineSpace NewlineMode = "space"

	// NewlineStrip removes line breaks entirely.
	NewlineStrip NewlineMode = "strip"
)

// Options configure text preparation. The zero value keeps newlines and
// applies no length limit.
type Options struct {
	// Newlines selects the line break treatment. Empty means NewlineKeep.
	Newlines NewlineMode `toml:"newlines" json:"newlines" yaml:"newlines"`

	// TabsToSpaces replaces each tab with this many spaces. Zero keeps tabs.
	TabsToSpaces int `toml:"tabs_to_spaces" json:"tabs_to_spaces" yaml:"tabs_to_spaces"`

	// CollapseSpaces squeezes runs of spaces into one.
	CollapseSpaces bool `toml:"collapse_spaces" json:"collapse_spaces" yaml:"collapse_spaces"`

	// TrimLines strips trailing whitespace from each line.
	TrimLines bool `toml:"trim_lines" json:"trim_lines" yaml:"trim_lines"`

	// MaxLength caps the prepared text, in runes. Zero means no limit.
	MaxLength int `toml:"max_length" json:"max_length" yaml:"max_length"`
}

// DefaultOptions returns the stock preparation: keep newlines, trim trailing
// line whitespace.
func DefaultOptions() Options {
	return Options{Newlines: NewlineKeep, TrimLines: true}
}

// Validate reports an invalid newline mode.
func (o Options) Validate() error {
	switch o.Newlines {
	case "", NewlineKeep, NewlineSpace, NewlineStrip:
		return nil
	}
	return fmt.Errorf("textprep: unknown newline mode %q", o.Newlines)
}

// Prepare normalizes text according to opts. Line endings are always
// normalized to LF first so CRLF input types identically on every platform.
func Prepare(text string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if opts.TabsToSpaces > 0 {
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", opts.TabsToSpaces))
	}

	if opts.TrimLines {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		text = strings.Join(lines, "\n")
	}

	switch opts.Newlines {
	case NewlineSpace:
		text = newlineRuns.ReplaceAllString(text, " ")
	case NewlineStrip:
		text = strings.ReplaceAll(text, "\n", "")
	}

	if opts.CollapseSpaces {
		text = spaceRuns.ReplaceAllString(text, " ")
	}

	text = strings.TrimRight(text, " \t\n")

	if opts.MaxLength > 0 {
		runes := []rune(text)
		if len(runes) > opts.MaxLength {
			text = string(runes[:opts.MaxLength])
		}
	}

	return text, nil
}
