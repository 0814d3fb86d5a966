package rotor

import "strings"

// Machine composes five wheels into the full cipher signal path:
//
//	plugboard → right → middle → left → reflector → left → middle → right → plugboard
//
// The plugboard and reflector never step. The three rotating wheels step
// odometer-style: the right wheel steps on every alphabetic character, and a
// turnover carries the step to the middle wheel, whose turnover carries it
// to the left wheel.
//
// The reflector wiring is expected to be a fixed-point-free involution (no
// letter maps to itself, applying it twice is the identity); the machine
// does not validate this, but the self-inverse property of Transform only
// holds when it is true of the supplied wiring.
//
// A Machine is exclusively owned by its caller. There is no internal
// synchronization; confine each instance to one goroutine at a time.
// Independent instances share nothing and may run concurrently.
type Machine struct {
	plugboard *Wheel
	right     *Wheel
	middle    *Wheel
	left      *Wheel
	reflector *Wheel
}

// RotorSpec bundles the construction parameters of one rotating wheel.
type RotorSpec struct {
	Wiring   string
	Position int
	Ring     int
}

// Step records one alphabetic character passing through the machine,
// captured by TransformTraced.
type Step struct {
	// Seq is the 1-based index of the character among the alphabetic
	// characters of the message.
	Seq int

	// Input and Output are the plaintext and lamp letters.
	Input  rune
	Output rune

	// Right, Middle, Left are the rotor positions after the stepping that
	// preceded this character's translation.
	Right, Middle, Left int
}

// NewMachine builds the five wheels. The plugboard and reflector are
// constructed with position 0 and ring 0; they have no rotation state.
// Construction fails with *WiringError on the first malformed wiring.
func NewMachine(plugboard string, right, middle, left RotorSpec, reflector string) (*Machine, error) {
	pb, err := NewWheel(plugboard, 0, 0)
	if err != nil {
		return nil, err
	}
	r, err := NewWheel(right.Wiring, right.Position, right.Ring)
	if err != nil {
		return nil, err
	}
	m, err := NewWheel(middle.Wiring, middle.Position, middle.Ring)
	if err != nil {
		return nil, err
	}
	l, err := NewWheel(left.Wiring, left.Position, left.Ring)
	if err != nil {
		return nil, err
	}
	refl, err := NewWheel(reflector, 0, 0)
	if err != nil {
		return nil, err
	}
	return &Machine{plugboard: pb, right: r, middle: m, left: l, reflector: refl}, nil
}

// SetTriggers assigns turnover positions to the three rotating wheels. The
// plugboard and reflector never step and take no triggers. Prior trigger
// sets are replaced entirely.
func (m *Machine) SetTriggers(right, middle, left []int) {
	m.right.SetTriggers(right...)
	m.middle.SetTriggers(middle...)
	m.left.SetTriggers(left...)
}

// SetPositions resets the rotor positions without touching wiring, ring
// settings, or triggers. Resetting to the starting positions of a previous
// Transform re-runs the same configuration, which is how a received message
// is deciphered.
func (m *Machine) SetPositions(right, middle, left int) {
	m.right.SetPosition(right)
	m.middle.SetPosition(middle)
	m.left.SetPosition(left)
}

// Positions returns the current right, middle, left rotor positions.
func (m *Machine) Positions() (right, middle, left int) {
	return m.right.Position(), m.middle.Position(), m.left.Position()
}

// Transform pushes each character of text through the machine and returns
// the result. Uppercase letters step the rotor assembly and traverse the
// full double-pass signal path; everything else passes through unchanged
// with no stepping. Rotor state persists across characters and across
// calls.
//
// Transform is self-inverse: with identical starting positions, applying it
// to its own output returns the original text.
func (m *Machine) Transform(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(m.transformRune(r))
	}
	return b.String()
}

// TransformTraced is Transform plus a per-character record of the signal
// path, one Step per alphabetic character.
func (m *Machine) TransformTraced(text string) (string, []Step) {
	var b strings.Builder
	b.Grow(len(text))
	var steps []Step
	for _, r := range text {
		out := m.transformRune(r)
		b.WriteRune(out)
		if r >= 'A' && r <= 'Z' {
			rp, mp, lp := m.Positions()
			steps = append(steps, Step{
				Seq:    len(steps) + 1,
				Input:  r,
				Output: out,
				Right:  rp,
				Middle: mp,
				Left:   lp,
			})
		}
	}
	return b.String(), steps
}

// transformRune routes one character through the machine. Stepping happens
// before translation, so the letter is enciphered at the post-step
// positions.
func (m *Machine) transformRune(r rune) rune {
	if r < 'A' || r > 'Z' {
		return r
	}

	if m.right.Rotate() {
		if m.middle.Rotate() {
			m.left.Rotate()
		}
	}

	// 1-based rank in, 1-based rank (mod 26) out.
	p := int(r-'A') + 1
	p = m.plugboard.RightToLeft(p)
	p = m.right.RightToLeft(p)
	p = m.middle.RightToLeft(p)
	p = m.left.RightToLeft(p)
	p = m.reflector.RightToLeft(p)
	p = m.left.LeftToRight(p)
	p = m.middle.LeftToRight(p)
	p = m.right.LeftToRight(p)
	p = m.plugboard.LeftToRight(p)
	return 'A' + rune(mod26(p+AlphabetSize-1))
}
