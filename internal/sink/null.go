package sink

// Null discards every emission. Dry runs use it so the engine walks the
// full action stream without producing keystrokes.
type Null struct{}

func (Null) EmitChar(rune) error          { return nil }
func (Null) EmitBackspace(int) error      { return nil }
func (Null) EmitSpecial(SpecialKey) error { return nil }
