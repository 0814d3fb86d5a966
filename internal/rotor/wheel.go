package rotor

import "strings"

// AlphabetSize is the modulus for every position computation in this package.
const AlphabetSize = 26

// Alphabet is the identity wiring. Useful as a plugboard when no plug pairs
// are in effect.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Wheel is a substitution cipher component. One type covers every role in
// the machine: a static wheel (plugboard, reflector) is constructed with
// position 0, ring 0 and simply never stepped, while a rotating wheel adds a
// rotor position (input-side shift, advanced by Rotate), a ring setting
// (output-side shift, fixed at construction), and turnover trigger
// positions.
//
// INVARIANTS:
//   - wiring is a permutation of the 26 uppercase letters (enforced by
//     NewWheel; everything else in this package assumes it)
//   - position and ring are always stored reduced mod 26
//   - Rotate advances position by exactly 1 mod 26 per call
//
// wiring and ring are immutable after construction. position mutates via
// Rotate and SetPosition; triggers via SetTriggers.
type Wheel struct {
	wiring   string
	position int
	ring     int
	triggers map[int]bool
}

// NewWheel constructs a wheel from a wiring permutation, an initial rotor
// position, and a ring setting. position and ring are reduced mod 26.
//
// The wiring must be exactly 26 uppercase letters with every letter of the
// alphabet appearing once; a malformed wiring is a fatal configuration error
// reported as *WiringError.
func NewWheel(wiring string, position, ring int) (*Wheel, error) {
	if err := ValidateWiring(wiring); err != nil {
		return nil, err
	}
	return &Wheel{
		wiring:   wiring,
		position: mod26(position),
		ring:     mod26(ring),
		triggers: map[int]bool{},
	}, nil
}

// Position returns the current rotor position in [0,26).
func (w *Wheel) Position() int {
	return w.position
}

// Ring returns the ring setting in [0,26).
func (w *Wheel) Ring() int {
	return w.ring
}

// Wiring returns the wiring permutation.
func (w *Wheel) Wiring() string {
	return w.wiring
}

// SetPosition replaces the rotor position, reduced mod 26.
func (w *Wheel) SetPosition(position int) {
	w.position = mod26(position)
}

// SetTriggers replaces the turnover trigger set. Each value is reduced
// mod 26. The prior set is discarded entirely.
func (w *Wheel) SetTriggers(positions ...int) {
	w.triggers = make(map[int]bool, len(positions))
	for _, p := range positions {
		w.triggers[mod26(p)] = true
	}
}

// Rotate advances the rotor position by 1 mod 26. It reports whether the
// NEW position is a turnover trigger, i.e. whether the next wheel in the
// chain should also rotate.
func (w *Wheel) Rotate() bool {
	w.position = mod26(w.position + 1)
	return w.triggers[w.position]
}

// Encipher substitutes each uppercase letter of text through the wheel:
// the letter's alphabet index is shifted backward by the rotor position,
// looked up in the wiring, and the result shifted forward by the ring
// setting. Characters outside A-Z pass through unchanged.
func (w *Wheel) Encipher(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(w.encipherRune(r))
	}
	return b.String()
}

// Decipher is the exact algebraic inverse of Encipher: undo the ring-setting
// shift, locate the letter in the wiring, add back the rotor position.
// Characters outside A-Z pass through unchanged.
func (w *Wheel) Decipher(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(w.decipherRune(r))
	}
	return b.String()
}

func (w *Wheel) encipherRune(r rune) rune {
	if r < 'A' || r > 'Z' {
		return r
	}
	idx := mod26(int(r-'A') + AlphabetSize - w.position)
	out := rune(w.wiring[idx]) + rune(w.ring)
	if out > 'Z' {
		out -= AlphabetSize
	}
	return out
}

func (w *Wheel) decipherRune(r rune) rune {
	if r < 'A' || r > 'Z' {
		return r
	}
	in := r - rune(w.ring)
	if in < 'A' {
		in += AlphabetSize
	}
	idx := w.mustIndex(byte(in))
	return 'A' + rune(mod26(idx+w.position))
}

// RightToLeft translates a signal travelling from the entry side of the
// machine toward the reflector. The input is a 1-based alphabet rank mod 26
// expressed in the frame of the previous component; the output is in the
// frame of the next component leftward. Holding position fixed,
// LeftToRight(RightToLeft(p)) == p for every valid p.
func (w *Wheel) RightToLeft(position int) int {
	idx := mod26(position + w.position + AlphabetSize - 1)
	c := w.wiring[idx]
	return mod26(int(c-'A') + 1 - w.position + AlphabetSize)
}

// LeftToRight translates a signal travelling back from the reflector toward
// the exit side of the machine. It is the structural inverse of RightToLeft.
func (w *Wheel) LeftToRight(position int) int {
	idx := mod26(position + w.position)
	letter := byte('A' + mod26(idx+AlphabetSize-1))
	found := w.mustIndex(letter)
	return mod26(found + 1 - w.position + AlphabetSize)
}

// mustIndex locates a letter in the wiring. A miss is impossible on a
// validated wiring, so it is an internal-consistency failure rather than a
// recoverable error.
func (w *Wheel) mustIndex(letter byte) int {
	i := strings.IndexByte(w.wiring, letter)
	if i < 0 {
		panic("rotor: letter " + string(letter) + " missing from validated wiring " + w.wiring)
	}
	return i
}

// mod26 reduces v into [0,26). v must not be more than 26 below zero; every
// caller pre-adds AlphabetSize before subtracting.
func mod26(v int) int {
	return ((v % AlphabetSize) + AlphabetSize) % AlphabetSize
}
