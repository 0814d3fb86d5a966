package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rotorwerk/internal/rotor"
	"github.com/roach88/rotorwerk/internal/settings"
)

// Scenario defines one known-answer test: a complete machine configuration,
// an input message, and the expected output.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Settings is the full machine configuration for the run.
	Settings settings.MachineSettings `yaml:"settings"`

	// Input is the plaintext (or ciphertext - the machine is self-inverse).
	Input string `yaml:"input"`

	// Expect is the expected transform output.
	Expect string `yaml:"expect"`

	// ExpectTrace pins individual trace steps by sequence number. It may
	// cover any subset of the message; listed steps must match the recorded
	// trace exactly for the scenario to pass.
	ExpectTrace []ExpectStep `yaml:"expect_trace,omitempty"`
}

// ExpectStep is one expected trace entry: the lamp letter and the rotor
// positions after stepping, for the seq-th alphabetic character.
type ExpectStep struct {
	Seq    int    `yaml:"seq"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Right  int    `yaml:"right"`
	Middle int    `yaml:"middle"`
	Left   int    `yaml:"left"`
}

// Result holds the outcome of running one scenario.
type Result struct {
	Scenario string       `json:"scenario"`
	Input    string       `json:"input"`
	Output   string       `json:"output"`
	Expect   string       `json:"expect"`
	Passed   bool         `json:"passed"`
	Steps    []rotor.Step `json:"steps"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Input == "" {
		return nil, fmt.Errorf("scenario %s: input is required", path)
	}
	if s.Expect == "" {
		return nil, fmt.Errorf("scenario %s: expect is required", path)
	}
	if s.Settings.Plugboard == "" {
		s.Settings.Plugboard = rotor.Alphabet
	}
	if err := s.Settings.ResolvePresets(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	for _, step := range s.ExpectTrace {
		if step.Seq < 1 {
			return nil, fmt.Errorf("scenario %s: expect_trace seq must be >= 1, got %d", path, step.Seq)
		}
	}
	return &s, nil
}

// LoadScenarioDir loads every .yaml file in a directory, sorted by file
// name for deterministic run order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Run builds the scenario's machine and executes the transform. Run returns
// an error only when the machine cannot be constructed; a wrong answer is a
// failed Result, not an error.
func Run(s *Scenario) (*Result, error) {
	m, err := s.Settings.Build()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	output, steps := m.TransformTraced(s.Input)
	return &Result{
		Scenario: s.Name,
		Input:    s.Input,
		Output:   output,
		Expect:   s.Expect,
		Passed:   output == s.Expect && traceMatches(s.ExpectTrace, steps),
		Steps:    steps,
	}, nil
}

// traceMatches checks every pinned step against the recorded trace.
func traceMatches(want []ExpectStep, steps []rotor.Step) bool {
	for _, w := range want {
		if w.Seq > len(steps) {
			return false
		}
		got := steps[w.Seq-1]
		if string(got.Input) != w.Input || string(got.Output) != w.Output {
			return false
		}
		if got.Right != w.Right || got.Middle != w.Middle || got.Left != w.Left {
			return false
		}
	}
	return true
}

// Snapshot converts a result to the map shape consumed by
// MarshalCanonical.
func (r *Result) Snapshot() map[string]any {
	steps := make([]any, len(r.Steps))
	for i, step := range r.Steps {
		steps[i] = map[string]any{
			"seq":    step.Seq,
			"input":  string(step.Input),
			"output": string(step.Output),
			"right":  step.Right,
			"middle": step.Middle,
			"left":   step.Left,
		}
	}
	return map[string]any{
		"scenario": r.Scenario,
		"input":    r.Input,
		"output":   r.Output,
		"passed":   r.Passed,
		"steps":    steps,
	}
}
