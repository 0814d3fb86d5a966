package settings

import (
	"fmt"
	"strings"

	"github.com/roach88/rotorwerk/internal/rotor"
)

// WheelSettings holds the configuration of one rotating wheel. A wheel is
// wired explicitly or by historical preset name; ResolvePresets turns the
// latter into the former.
type WheelSettings struct {
	Preset   string `json:"preset,omitempty" yaml:"preset,omitempty"`
	Wiring   string `json:"wiring,omitempty" yaml:"wiring,omitempty"`
	Position int    `json:"position" yaml:"position"`
	Ring     int    `json:"ring" yaml:"ring"`
	Triggers []int  `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// MachineSettings is a complete machine configuration: five wirings plus
// the rotating wheels' positions, ring settings, and turnover triggers.
type MachineSettings struct {
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Plugboard   string        `json:"plugboard" yaml:"plugboard"`
	Right       WheelSettings `json:"right" yaml:"right"`
	Middle      WheelSettings `json:"middle" yaml:"middle"`
	Left        WheelSettings `json:"left" yaml:"left"`
	Reflector   string        `json:"reflector" yaml:"reflector"`
}

// ResolvePresets replaces preset names with the wirings they stand for.
// Each wheel must carry exactly one of preset and wiring; a preset wheel
// with no explicit triggers inherits the preset's turnover positions. A
// reflector shorter than a full wiring is looked up as a preset name.
// Validate and Build expect settings that have been resolved.
func (s *MachineSettings) ResolvePresets() error {
	wheels := []struct {
		field string
		wheel *WheelSettings
	}{
		{"right", &s.Right},
		{"middle", &s.Middle},
		{"left", &s.Left},
	}
	for _, w := range wheels {
		if err := w.wheel.resolvePreset(); err != nil {
			return fmt.Errorf("%s: %w", w.field, err)
		}
	}

	if len(s.Reflector) != len(rotor.Alphabet) {
		wiring, ok := LookupReflector(s.Reflector)
		if !ok {
			return fmt.Errorf("reflector: unknown preset %q (known: %s)", s.Reflector, strings.Join(ReflectorNames(), ", "))
		}
		s.Reflector = wiring
	}
	return nil
}

func (w *WheelSettings) resolvePreset() error {
	switch {
	case w.Preset == "" && w.Wiring == "":
		return fmt.Errorf("one of wiring or preset is required")
	case w.Preset != "" && w.Wiring != "":
		return fmt.Errorf("wiring and preset are mutually exclusive")
	case w.Preset == "":
		return nil
	}

	p, ok := LookupRotor(w.Preset)
	if !ok {
		return fmt.Errorf("unknown rotor preset %q (known: %s)", w.Preset, strings.Join(RotorNames(), ", "))
	}
	w.Wiring = p.Wiring
	if w.Triggers == nil {
		w.Triggers = append([]int(nil), p.Turnovers...)
	}
	w.Preset = ""
	return nil
}

// ValidationWarning flags a configuration that is accepted but cannot occur
// on real hardware.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the invariants the CUE schema cannot express: every
// wiring must be a permutation of the alphabet. It returns hardware-realism
// warnings (currently: a reflector that is not a fixed-point-free
// involution) alongside any hard error; warnings do not prevent Build.
func (s *MachineSettings) Validate() ([]ValidationWarning, error) {
	wirings := []struct {
		field  string
		wiring string
	}{
		{"plugboard", s.Plugboard},
		{"right.wiring", s.Right.Wiring},
		{"middle.wiring", s.Middle.Wiring},
		{"left.wiring", s.Left.Wiring},
		{"reflector", s.Reflector},
	}
	for _, w := range wirings {
		if err := rotor.ValidateWiring(w.wiring); err != nil {
			return nil, fmt.Errorf("%s: %w", w.field, err)
		}
	}

	var warnings []ValidationWarning
	if !rotor.IsInvolution(s.Reflector) {
		warnings = append(warnings, ValidationWarning{
			Field:   "reflector",
			Message: "reflector wiring is not a fixed-point-free involution; Transform will not be self-inverse",
		})
	}
	return warnings, nil
}

// Build constructs a machine from the settings and assigns the turnover
// triggers.
func (s *MachineSettings) Build() (*rotor.Machine, error) {
	if _, err := s.Validate(); err != nil {
		return nil, err
	}
	m, err := rotor.NewMachine(
		s.Plugboard,
		rotor.RotorSpec{Wiring: s.Right.Wiring, Position: s.Right.Position, Ring: s.Right.Ring},
		rotor.RotorSpec{Wiring: s.Middle.Wiring, Position: s.Middle.Position, Ring: s.Middle.Ring},
		rotor.RotorSpec{Wiring: s.Left.Wiring, Position: s.Left.Position, Ring: s.Left.Ring},
		s.Reflector,
	)
	if err != nil {
		return nil, err
	}
	m.SetTriggers(s.Right.Triggers, s.Middle.Triggers, s.Left.Triggers)
	return m, nil
}
