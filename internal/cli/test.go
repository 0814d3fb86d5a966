package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rotorwerk/internal/harness"
)

// ScenarioOutcome is one row of the test command's report.
type ScenarioOutcome struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
	Expect string `json:"expect,omitempty"`
}

// TestReport is the success payload of the test command.
type TestReport struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Outcomes []ScenarioOutcome `json:"outcomes"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenario-dir>",
		Short: "Run known-answer scenarios",
		Long: `Run every scenario YAML file in a directory and report pass/fail.

A scenario holds a machine configuration, an input message, and the
expected output. Exit code 1 means at least one scenario failed; exit
code 2 means the scenarios could not be loaded or run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runScenarios(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenarios, err := harness.LoadScenarioDir(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	formatter.VerboseLog("loaded %d scenario(s) from %s", len(scenarios), dir)

	report := TestReport{Total: len(scenarios)}
	for _, s := range scenarios {
		result, err := harness.Run(s)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s failed to run", s.Name), err)
		}
		outcome := ScenarioOutcome{Name: s.Name, Passed: result.Passed}
		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
			outcome.Output = result.Output
			outcome.Expect = result.Expect
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		for _, o := range report.Outcomes {
			status := "PASS"
			if !o.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", status, o.Name)
			if !o.Passed {
				fmt.Fprintf(cmd.OutOrStdout(), "      got:  %s\n      want: %s\n", o.Output, o.Expect)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d passed\n", report.Passed, report.Total)
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", report.Failed, report.Total))
	}
	return nil
}
