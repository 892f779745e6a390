// Package keymap models the physical QWERTY keyboard layout.
//
// It provides two process-lifetime constant tables: the adjacency map, which
// lists the physically neighboring keys of every base (unshifted) key, and
// the shift map, which relates shifted characters to the base key that
// produces them. The tables are built once at init and are never mutated, so
// they are safe to share between goroutines without locking.
package keymap

import "unicode"

// adjacency maps a base key to its physical neighbors, row by row.
// Neighbor order is fixed: it matters to callers that sample uniformly and to
// tests that pin the layout.
var adjacency = map[rune][]rune{
	// Number row.
	'`': {'1'},
	'1': {'`', '2', 'q'},
	'2': {'1', '3', 'q', 'w'},
	'3': {'2', '4', 'w', 'e'},
	'4': {'3', '5', 'e', 'r'},
	'5': {'4', '6', 'r', 't'},
	'6': {'5', '7', 't', 'y'},
	'7': {'6', '8', 'y', 'u'},
	'8': {'7', '9', 'u', 'i'},
	'9': {'8', '0', 'i', 'o'},
	'0': {'9', '-', 'o', 'p'},
	'-': {'0', '=', 'p', '['},
	'=': {'-', '[', ']'},

	// Top row.
	'q':  {'1', '2', 'w', 'a'},
	'w':  {'2', '3', 'q', 'e', 'a', 's'},
	'e':  {'3', '4', 'w', 'r', 's', 'd'},
	'r':  {'4', '5', 'e', 't', 'd', 'f'},
	't':  {'5', '6', 'r', 'y', 'f', 'g'},
	'y':  {'6', '7', 't', 'u', 'g', 'h'},
	'u':  {'7', '8', 'y', 'i', 'h', 'j'},
	'i':  {'8', '9', 'u', 'o', 'j', 'k'},
	'o':  {'9', '0', 'i', 'p', 'k', 'l'},
	'p':  {'0', '-', 'o', '[', 'l', ';'},
	'[':  {'-', '=', 'p', ']', ';', '\''},
	']':  {'=', '[', '\\', '\''},
	'\\': {'=', ']'},

	// Home row.
	'a':  {'q', 'w', 's', 'z'},
	's':  {'q', 'w', 'e', 'a', 'd', 'z', 'x'},
	'd':  {'w', 'e', 'r', 's', 'f', 'x', 'c'},
	'f':  {'e', 'r', 't', 'd', 'g', 'c', 'v'},
	'g':  {'r', 't', 'y', 'f', 'h', 'v', 'b'},
	'h':  {'t', 'y', 'u', 'g', 'j', 'b', 'n'},
	'j':  {'y', 'u', 'i', 'h', 'k', 'n', 'm'},
	'k':  {'u', 'i', 'o', 'j', 'l', 'm', ','},
	'l':  {'i', 'o', 'p', 'k', ';', ',', '.'},
	';':  {'o', 'p', '[', 'l', '\'', '.'},
	'\'': {'p', '[', ']', ';'},

	// Bottom row.
	'z': {'a', 's', 'x'},
	'x': {'a', 's', 'd', 'z', 'c'},
	'c': {'s', 'd', 'f', 'x', 'v'},
	'v': {'d', 'f', 'g', 'c', 'b'},
	'b': {'f', 'g', 'h', 'v', 'n'},
	'n': {'g', 'h', 'j', 'b', 'm'},
	'm': {'h', 'j', 'k', 'n', ','},
	',': {'j', 'k', 'l', 'm', '.'},
	'.': {'k', 'l', ';', ',', '/'},
	'/': {'l', ';', '.'},
}

// symbolShift maps shifted symbols and digits to their base key. Letters are
// added to shiftToBase at init; they are deliberately absent here so that
// baseToShift stays symbol-only and letters round-trip through case mapping.
var symbolShift = map[rune]rune{
	'~': '`',
	'!': '1',
	'@': '2',
	'#': '3',
	'$': '4',
	'%': '5',
	'^': '6',
	'&': '7',
	'*': '8',
	'(': '9',
	')': '0',
	'_': '-',
	'+': '=',
	'{': '[',
	'}': ']',
	'|': '\\',
	':': ';',
	'"': '\'',
	'<': ',',
	'>': '.',
	'?': '/',
}

var (
	shiftToBase = map[rune]rune{}
	baseToShift = map[rune]rune{}
)

func init() {
	for shifted, base := range symbolShift {
		shiftToBase[shifted] = base
		baseToShift[base] = shifted
	}
	for c := 'A'; c <= 'Z'; c++ {
		shiftToBase[c] = unicode.ToLower(c)
	}
}

// BaseKey returns the unshifted physical key producing c.
// Characters that are already base keys map to themselves.
func BaseKey(c rune) rune {
	if base, ok := shiftToBase[c]; ok {
		return base
	}
	return c
}

// RequiresShift reports whether typing c needs the shift modifier held.
func RequiresShift(c rune) bool {
	_, ok := shiftToBase[c]
	return ok
}

// Shifted returns the character produced by typing base with shift held:
// the mapped symbol for symbol and digit keys, the uppercase form for
// letters, and base itself for anything else.
func Shifted(base rune) rune {
	if s, ok := baseToShift[base]; ok {
		return s
	}
	return unicode.ToUpper(base)
}

// AdjacentKeys returns the physical neighbors of c's base key, in layout
// order. If c itself is a shifted character the neighbors are re-shifted:
// through the explicit shift mapping where one exists, otherwise by
// uppercasing, so shifted input yields shifted neighbors. Characters without
// an adjacency entry return nil; callers fall back to normal typing.
func AdjacentKeys(c rune) []rune {
	shifted := RequiresShift(c)
	neighbors, ok := adjacency[BaseKey(c)]
	if !ok {
		return nil
	}

	out := make([]rune, len(neighbors))
	for i, n := range neighbors {
		switch {
		case !shifted:
			out[i] = n
		default:
			if s, ok := baseToShift[n]; ok {
				out[i] = s
			} else {
				out[i] = unicode.ToUpper(n)
			}
		}
	}
	return out
}
