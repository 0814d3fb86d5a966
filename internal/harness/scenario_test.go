package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Loading
// =============================================================================

func TestLoadScenario_KnownAnswer(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "known_answer.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "known_answer", s.Name)
	assert.Equal(t, "QMJIDO MZWZJFJR", s.Input)
	assert.Equal(t, "ENIGMA REVEALED", s.Expect)
	assert.Equal(t, 10, s.Settings.Right.Position)
	assert.Equal(t, []int{22}, s.Settings.Right.Triggers)
	assert.Equal(t, "YRUHQSLDPXNGOKMIEBFZCWVJAT", s.Settings.Reflector)
}

func TestLoadScenario_MissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\ninput: ABC\n"), 0o644))
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect is required")
}

func TestLoadScenario_DefaultsPlugboardToIdentity(t *testing.T) {
	dir := t.TempDir()
	src := `name: x
settings:
  right: {wiring: BDFHJLCPRTXVZNYEIWGAKMUSQO}
  middle: {wiring: AJDKSIRUXBLHWTMCQGZNPYFVOE}
  left: {wiring: EKMFLGDQVZNTOWYHXUSPAIBRCJ}
  reflector: YRUHQSLDPXNGOKMIEBFZCWVJAT
input: A
expect: X
`
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ", s.Settings.Plugboard)
}

func TestLoadScenarioDir_SortedByFileName(t *testing.T) {
	scenarios, err := LoadScenarioDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, scenarios, 4)
	assert.Equal(t, "decipher_known_answer", scenarios[0].Name)
	assert.Equal(t, "known_answer", scenarios[1].Name)
	assert.Equal(t, "passthrough", scenarios[2].Name)
	assert.Equal(t, "preset_known_answer", scenarios[3].Name)
}

func TestLoadScenario_ResolvesPresets(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "preset_known_answer.yaml"))
	require.NoError(t, err)

	assert.Empty(t, s.Settings.Right.Preset)
	assert.Equal(t, "BDFHJLCPRTXVZNYEIWGAKMUSQO", s.Settings.Right.Wiring)
	assert.Equal(t, []int{22}, s.Settings.Right.Triggers, "triggers default to the preset's turnovers")
	assert.Equal(t, "YRUHQSLDPXNGOKMIEBFZCWVJAT", s.Settings.Reflector)
	require.Len(t, s.ExpectTrace, 3)
	assert.Equal(t, 14, s.ExpectTrace[2].Seq)
}

func TestLoadScenario_UnknownPreset(t *testing.T) {
	dir := t.TempDir()
	src := `name: x
settings:
  right: {preset: IX}
  middle: {preset: II}
  left: {preset: I}
  reflector: B
input: A
expect: X
`
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rotor preset "IX"`)
}

func TestLoadScenarioDir_EmptyDir(t *testing.T) {
	_, err := LoadScenarioDir(t.TempDir())
	require.Error(t, err)
}

// =============================================================================
// Running
// =============================================================================

func TestRun_KnownAnswerPasses(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "known_answer.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "ENIGMA REVEALED", result.Output)
	assert.Len(t, result.Steps, 14)
}

func TestRun_WrongExpectationFailsWithoutError(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "known_answer.yaml"))
	require.NoError(t, err)
	s.Expect = "SOMETHING ELSE"

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed)
}

func TestRun_ExpectTracePinsSteps(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "preset_known_answer.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Passed)

	// A wrong pinned position fails the scenario even though the output
	// text still matches.
	s.ExpectTrace[0].Right = 10
	result, err = Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, s.Expect, result.Output)

	// A seq beyond the recorded trace fails rather than panics.
	s.ExpectTrace[0].Right = 11
	s.ExpectTrace = append(s.ExpectTrace, ExpectStep{Seq: 99, Input: "A", Output: "A"})
	result, err = Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed)
}

func TestRun_BadWiringIsAnError(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "known_answer.yaml"))
	require.NoError(t, err)
	s.Settings.Right.Wiring = "AACDEFGHIJKLMNOPQRSTUVWXYZ"

	_, err = Run(s)
	require.Error(t, err)
}

// =============================================================================
// Golden traces
// =============================================================================

func TestRunWithGolden_AllScenarios(t *testing.T) {
	scenarios, err := LoadScenarioDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Passed)
		})
	}
}
