// Package rotor implements the core of a rotor-based polyalphabetic
// substitution cipher machine: the wheel abstraction (static or rotating
// substitution with ring setting and turnover triggers) and the machine-level
// signal path that composes a plugboard, three rotating wheels, and a
// reflector into a bidirectional double-pass circuit.
//
// Two number spaces are in play and must not be confused:
//
//   - Wiring indices are 0-based: wiring[i] is the cipher image of the
//     i-th alphabet letter.
//   - Machine-level signal values are 1-based alphabet ranks carried mod 26,
//     so 'A' travels as 1, 'Z' as 26 ≡ 0. RightToLeft and LeftToRight
//     consume and produce values in this space.
//
// All arithmetic is mod 26. Everything in this package is a pure function of
// wheel state and input; nothing here logs or performs I/O.
package rotor
