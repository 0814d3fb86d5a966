package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/rotorwerk/internal/settings"
)

// ValidationResult holds validate command results.
type ValidationResult struct {
	Valid    bool                         `json:"valid"`
	Name     string                       `json:"name,omitempty"`
	Warnings []settings.ValidationWarning `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <settings-file>",
		Short: "Validate a machine settings file",
		Long: `Validate a machine settings CUE file without running a transform.

Checks the schema (wiring shape, position and trigger ranges), the
permutation invariant of each wiring, and warns when the reflector is not a
fixed-point-free involution.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := settings.Load(path)
	if err != nil {
		var loadErr *settings.LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Code == settings.ErrCodeNotFound {
				_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
				return NewExitError(ExitCommandError, loadErr.Message)
			}
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitFailure, loadErr.Message)
		}
		return WrapExitError(ExitCommandError, "failed to load settings", err)
	}

	warnings, err := cfg.Validate()
	if err != nil {
		_ = formatter.Error("E_WIRING", err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result := ValidationResult{Valid: true, Name: cfg.Name, Warnings: warnings}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	formatter.VerboseLog("machine %q", cfg.Name)
	for _, w := range warnings {
		formatter.VerboseLog("warning: %s: %s", w.Field, w.Message)
	}
	return formatter.Success("valid")
}
