package sink

import (
	"sync"

	"humantype/internal/keymap"
)

// Buffer is an in-memory Device that applies keystrokes to a rune buffer,
// including backspace deletions. Tests and dry-run previews read the final
// text back with String.
type Buffer struct {
	mu    sync.Mutex
	runes []rune
	shift bool

	// Taps counts every key event, deletions included.
	taps int
}

func (b *Buffer) Tap(c rune) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps++
	if b.shift {
		c = keymap.Shifted(c)
	}
	b.runes = append(b.runes, c)
	return nil
}

func (b *Buffer) TapSpecial(k SpecialKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps++
	switch k {
	case KeyEnter:
		b.runes = append(b.runes, '\n')
	case KeyTab:
		b.runes = append(b.runes, '\t')
	case KeySpace:
		b.runes = append(b.runes, ' ')
	case KeyBackspace:
		if len(b.runes) > 0 {
			b.runes = b.runes[:len(b.runes)-1]
		}
	}
	return nil
}

func (b *Buffer) PressShift() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shift = true
	return nil
}

func (b *Buffer) ReleaseShift() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shift = false
	return nil
}

// String returns the buffer contents after all deletions.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.runes)
}

// Taps returns the total number of key events applied.
func (b *Buffer) Taps() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.taps
}

// Reset clears the buffer for reuse.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes = b.runes[:0]
	b.shift = false
	b.taps = 0
}
