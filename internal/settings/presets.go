package settings

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed presets.cue
var presetsCUE string

// RotorPreset is a named historical rotor: its wiring and the turnover
// positions its stepping carries at.
type RotorPreset struct {
	Wiring    string `json:"wiring"`
	Turnovers []int  `json:"turnovers"`
}

var (
	presetsOnce      sync.Once
	rotorPresets     map[string]RotorPreset
	reflectorPresets map[string]string
)

func loadPresets() {
	ctx := cuecontext.New()
	v := ctx.CompileString(presetsCUE, cue.Filename("presets.cue"))
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("settings: embedded presets do not compile: %v", err))
	}

	rotorPresets = map[string]RotorPreset{}
	if err := v.LookupPath(cue.ParsePath("rotor")).Decode(&rotorPresets); err != nil {
		panic(fmt.Sprintf("settings: decoding rotor presets: %v", err))
	}

	reflectorPresets = map[string]string{}
	if err := v.LookupPath(cue.ParsePath("reflector")).Decode(&reflectorPresets); err != nil {
		panic(fmt.Sprintf("settings: decoding reflector presets: %v", err))
	}
}

// LookupRotor returns the historical rotor preset with the given name
// (I through VIII).
func LookupRotor(name string) (RotorPreset, bool) {
	presetsOnce.Do(loadPresets)
	p, ok := rotorPresets[name]
	return p, ok
}

// LookupReflector returns the historical reflector wiring with the given
// name (A, B, or C).
func LookupReflector(name string) (string, bool) {
	presetsOnce.Do(loadPresets)
	w, ok := reflectorPresets[name]
	return w, ok
}

// RotorNames returns the available rotor preset names, sorted.
func RotorNames() []string {
	presetsOnce.Do(loadPresets)
	names := make([]string, 0, len(rotorPresets))
	for name := range rotorPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReflectorNames returns the available reflector preset names, sorted.
func ReflectorNames() []string {
	presetsOnce.Do(loadPresets)
	names := make([]string, 0, len(reflectorPresets))
	for name := range reflectorPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
