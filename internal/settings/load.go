package settings

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Load error codes.
const (
	ErrCodeNotFound   = "E_NOT_FOUND"
	ErrCodeParse      = "E_PARSE"
	ErrCodeSchema     = "E_SCHEMA"
	ErrCodeIncomplete = "E_INCOMPLETE"
	ErrCodePreset     = "E_PRESET"
)

// LoadError reports a failure to read, parse, or schema-check a settings
// file. Pos carries the CUE source position when one is available.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a machine settings CUE file, unifies it with the embedded
// schema, and decodes the machine declaration. Schema violations (bad wiring
// shape, out-of-range positions, missing roles) are reported as *LoadError
// with source positions; the permutation invariant is checked separately by
// MachineSettings.Validate.
func Load(path string) (*MachineSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("settings file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading settings file: %v", err)}
	}
	return Parse(path, data)
}

// Parse is Load on in-memory bytes; path is used for error positions only.
func Parse(path string, data []byte) (*MachineSettings, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect,
		// not a user error.
		panic(fmt.Sprintf("settings: embedded schema does not compile: %v", err))
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Pos: file.Pos()}
	}

	unified := schema.Unify(file)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error(), Pos: unified.Pos()}
	}

	machineVal := unified.LookupPath(cue.ParsePath("machine"))
	if !machineVal.Exists() {
		return nil, &LoadError{Code: ErrCodeIncomplete, Message: "no machine declaration found"}
	}

	var s MachineSettings
	if err := machineVal.Decode(&s); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("decoding machine: %v", err), Pos: machineVal.Pos()}
	}
	if err := s.ResolvePresets(); err != nil {
		return nil, &LoadError{Code: ErrCodePreset, Message: err.Error(), Pos: machineVal.Pos()}
	}
	return &s, nil
}
