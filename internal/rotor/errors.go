package rotor

import "fmt"

// WiringErrorCode categorizes wiring validation failures.
type WiringErrorCode string

const (
	// ErrCodeWiringLength indicates the wiring is not exactly 26 characters.
	ErrCodeWiringLength WiringErrorCode = "WIRING_LENGTH"

	// ErrCodeWiringAlphabet indicates a character outside A-Z.
	ErrCodeWiringAlphabet WiringErrorCode = "WIRING_ALPHABET"

	// ErrCodeWiringDuplicate indicates a letter appears more than once
	// (equivalently, some letter is missing).
	ErrCodeWiringDuplicate WiringErrorCode = "WIRING_DUPLICATE"
)

// WiringError reports a malformed wiring at construction time. Wiring is
// validated once; the core assumes well-formed wiring thereafter and does
// not re-check per character.
type WiringError struct {
	Code    WiringErrorCode
	Wiring  string
	Message string
}

// Error implements the error interface.
func (e *WiringError) Error() string {
	return fmt.Sprintf("%s: %s (wiring=%q)", e.Code, e.Message, e.Wiring)
}

// ValidateWiring checks the permutation invariant: exactly 26 characters,
// all uppercase A-Z, each letter of the alphabet exactly once.
func ValidateWiring(wiring string) error {
	if len(wiring) != AlphabetSize {
		return &WiringError{
			Code:    ErrCodeWiringLength,
			Wiring:  wiring,
			Message: fmt.Sprintf("wiring must be %d letters, got %d", AlphabetSize, len(wiring)),
		}
	}
	var seen [AlphabetSize]bool
	for i := 0; i < len(wiring); i++ {
		c := wiring[i]
		if c < 'A' || c > 'Z' {
			return &WiringError{
				Code:    ErrCodeWiringAlphabet,
				Wiring:  wiring,
				Message: fmt.Sprintf("character %q at index %d is not an uppercase letter", c, i),
			}
		}
		if seen[c-'A'] {
			return &WiringError{
				Code:    ErrCodeWiringDuplicate,
				Wiring:  wiring,
				Message: fmt.Sprintf("letter %q appears more than once", c),
			}
		}
		seen[c-'A'] = true
	}
	return nil
}

// IsInvolution reports whether a wiring is a fixed-point-free involution:
// no letter maps to itself and applying the wiring twice returns the
// original letter. Historically accurate reflectors have this property. The
// machine does not require it, but settings validation uses it to warn
// about reflectors that cannot occur on real hardware.
func IsInvolution(wiring string) bool {
	if ValidateWiring(wiring) != nil {
		return false
	}
	for i := 0; i < AlphabetSize; i++ {
		img := int(wiring[i] - 'A')
		if img == i {
			return false
		}
		if int(wiring[img]-'A') != i {
			return false
		}
	}
	return true
}
