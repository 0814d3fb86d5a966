package rotor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMachine builds the machine from the historical known-answer
// scenario: identity plugboard, rotors III/II/I at positions 10/2/12, ring 0,
// reflector B, turnovers right={22} middle={5} left={17}.
func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewMachine(
		Alphabet,
		RotorSpec{Wiring: wiringIII, Position: 10},
		RotorSpec{Wiring: wiringII, Position: 2},
		RotorSpec{Wiring: wiringI, Position: 12},
		wiringRefB,
	)
	require.NoError(t, err)
	m.SetTriggers([]int{22}, []int{5}, []int{17})
	return m
}

// =============================================================================
// Construction
// =============================================================================

func TestNewMachine_RejectsMalformedWiring(t *testing.T) {
	_, err := NewMachine(
		Alphabet,
		RotorSpec{Wiring: "BAD"},
		RotorSpec{Wiring: wiringII},
		RotorSpec{Wiring: wiringI},
		wiringRefB,
	)
	require.Error(t, err)
	var wErr *WiringError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, ErrCodeWiringLength, wErr.Code)
}

func TestNewMachine_InitialPositions(t *testing.T) {
	m := newTestMachine(t)
	r, mid, l := m.Positions()
	assert.Equal(t, 10, r)
	assert.Equal(t, 2, mid)
	assert.Equal(t, 12, l)
}

// =============================================================================
// Transform
// =============================================================================

func TestMachine_Transform_KnownAnswer(t *testing.T) {
	m := newTestMachine(t)
	assert.Equal(t, "ENIGMA REVEALED", m.Transform("QMJIDO MZWZJFJR"))
}

func TestMachine_Transform_SelfInverse(t *testing.T) {
	m := newTestMachine(t)
	plaintext := "HELLO WORLD THIS IS A TEST"

	ciphertext := m.Transform(plaintext)
	assert.Equal(t, "DLTBB QVPQV ZYTO BC H ZYOE", ciphertext)

	m.SetPositions(10, 2, 12)
	assert.Equal(t, plaintext, m.Transform(ciphertext))
}

func TestMachine_Transform_SelfInverseArbitraryText(t *testing.T) {
	messages := []string{
		"A",
		"ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ",
		"THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG",
		"ATTACK AT DAWN STOP SEND REINFORCEMENTS STOP",
	}
	for _, msg := range messages {
		m := newTestMachine(t)
		ciphertext := m.Transform(msg)
		m.SetPositions(10, 2, 12)
		require.Equal(t, msg, m.Transform(ciphertext), "message %q", msg)
	}
}

func TestMachine_Transform_NonAlphabeticPassThrough(t *testing.T) {
	m := newTestMachine(t)
	got := m.Transform("A B!C")
	require.Len(t, got, 5)
	assert.Equal(t, byte(' '), got[1])
	assert.Equal(t, byte('!'), got[3])
	assert.Equal(t, "T S!N", got)
}

func TestMachine_Transform_NonAlphabeticDoesNotStep(t *testing.T) {
	m := newTestMachine(t)
	m.Transform(" !?,.123 lowercase ")
	r, mid, l := m.Positions()
	assert.Equal(t, 10, r, "right wheel must not step on pass-through input")
	assert.Equal(t, 2, mid)
	assert.Equal(t, 12, l)
}

func TestMachine_Transform_StatePersistsAcrossCalls(t *testing.T) {
	whole := newTestMachine(t)
	split := newTestMachine(t)
	assert.Equal(t, whole.Transform("AB"), split.Transform("A")+split.Transform("B"))
}

// =============================================================================
// Stepping
// =============================================================================

func TestMachine_Stepping_BeforeTranslation(t *testing.T) {
	m := newTestMachine(t)
	out := m.Transform("A")
	r, mid, l := m.Positions()
	assert.Equal(t, 11, r, "right wheel steps before the character is translated")
	assert.Equal(t, 2, mid)
	assert.Equal(t, 12, l)
	assert.Equal(t, "T", out)
}

func TestMachine_Stepping_CarryToMiddle(t *testing.T) {
	m := newTestMachine(t)
	// 14 alphabetic characters: the right wheel crosses its turnover at 22
	// on the 12th step, carrying one step to the middle wheel.
	m.Transform("QMJIDO MZWZJFJR")
	r, mid, l := m.Positions()
	assert.Equal(t, 24, r)
	assert.Equal(t, 3, mid)
	assert.Equal(t, 12, l)
}

func TestMachine_Stepping_CarryToLeft(t *testing.T) {
	m := newTestMachine(t)
	// One step from a position where both the right and middle turnovers
	// fire propagates all the way to the left wheel.
	m.SetPositions(21, 4, 12)
	m.Transform("A")
	r, mid, l := m.Positions()
	assert.Equal(t, 22, r)
	assert.Equal(t, 5, mid)
	assert.Equal(t, 13, l)
}

func TestMachine_SetPositions_DoesNotTouchTriggers(t *testing.T) {
	m := newTestMachine(t)
	m.SetPositions(21, 4, 12)
	m.Transform("A")
	// Carry fired, so the triggers survived the reset.
	_, mid, _ := m.Positions()
	assert.Equal(t, 5, mid)
}

// =============================================================================
// Traced transform
// =============================================================================

func TestMachine_TransformTraced_MatchesTransform(t *testing.T) {
	traced := newTestMachine(t)
	plain := newTestMachine(t)
	text := "QMJIDO MZWZJFJR"
	got, steps := traced.TransformTraced(text)
	assert.Equal(t, plain.Transform(text), got)
	require.Len(t, steps, 14, "one step per alphabetic character")
}

func TestMachine_TransformTraced_StepContents(t *testing.T) {
	m := newTestMachine(t)
	_, steps := m.TransformTraced("QM J")
	require.Len(t, steps, 3)

	assert.Equal(t, Step{Seq: 1, Input: 'Q', Output: 'E', Right: 11, Middle: 2, Left: 12}, steps[0])
	assert.Equal(t, Step{Seq: 2, Input: 'M', Output: 'N', Right: 12, Middle: 2, Left: 12}, steps[1])
	assert.Equal(t, Step{Seq: 3, Input: 'J', Output: 'I', Right: 13, Middle: 2, Left: 12}, steps[2])
}

func TestMachine_TransformTraced_NoStepsForPassThrough(t *testing.T) {
	m := newTestMachine(t)
	out, steps := m.TransformTraced(" ... ")
	assert.Equal(t, " ... ", out)
	assert.Empty(t, steps)
}
