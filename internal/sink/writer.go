package sink

import (
	"io"
	"sync"

	"humantype/internal/keymap"
)

// Writer is a Device that renders keystrokes onto an io.Writer. Backspace is
// rendered as the terminal erase sequence, so a live run on a terminal shows
// typos appearing and being corrected in place.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	shift bool
}

// NewWriter creates a writer device over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (d *Writer) Tap(c rune) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shift {
		c = keymap.Shifted(c)
	}
	_, err := io.WriteString(d.w, string(c))
	return err
}

func (d *Writer) TapSpecial(k SpecialKey) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var s string
	switch k {
	case KeyEnter:
		s = "\n"
	case KeyTab:
		s = "\t"
	case KeySpace:
		s = " "
	case KeyBackspace:
		s = "\b \b"
	}
	_, err := io.WriteString(d.w, s)
	return err
}

func (d *Writer) PressShift() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shift = true
	return nil
}

func (d *Writer) ReleaseShift() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shift = false
	return nil
}
