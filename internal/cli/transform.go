package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rotorwerk/internal/settings"
	"github.com/roach88/rotorwerk/internal/store"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	*RootOptions
	Settings  string
	Positions string
	TraceDB   string

	// Tokens overrides the trace session token generator (for testing).
	Tokens store.TokenGenerator
}

// TransformResult is the success payload of the transform command.
type TransformResult struct {
	Output       string `json:"output"`
	SessionToken string `json:"session_token,omitempty"`
	Right        int    `json:"right"`
	Middle       int    `json:"middle"`
	Left         int    `json:"left"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transform <message>",
		Short: "Push a message through the machine",
		Long: `Push a message through the machine described by a settings file.

The machine is self-inverse: transforming ciphertext produced with the same
starting positions yields the plaintext, so there is no separate decipher
command. Uppercase letters are enciphered; everything else passes through
unchanged.

Example:
  rotorwerk transform --settings daily.cue "QMJIDO MZWZJFJR"
  rotorwerk transform --settings daily.cue --positions 10,2,12 --trace-db runs.db "HELLO"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Settings, "settings", "", "path to machine settings CUE file (required)")
	cmd.Flags().StringVar(&opts.Positions, "positions", "", "override starting rotor positions as right,middle,left")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "record the session to this SQLite trace database")
	_ = cmd.MarkFlagRequired("settings")

	return cmd
}

func runTransform(opts *TransformOptions, message string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := settings.Load(opts.Settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load settings", err)
	}

	warnings, err := cfg.Validate()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid settings", err)
	}
	for _, w := range warnings {
		slog.Warn("settings warning", "field", w.Field, "message", w.Message)
	}

	machine, err := cfg.Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build machine", err)
	}

	if opts.Positions != "" {
		right, middle, left, err := parsePositions(opts.Positions)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --positions", err)
		}
		machine.SetPositions(right, middle, left)
	}

	startRight, startMiddle, startLeft := machine.Positions()
	formatter.VerboseLog("starting positions right=%d middle=%d left=%d", startRight, startMiddle, startLeft)

	output, steps := machine.TransformTraced(message)
	right, middle, left := machine.Positions()
	result := TransformResult{Output: output, Right: right, Middle: middle, Left: left}

	if opts.TraceDB != "" {
		var storeOpts []store.Option
		if opts.Tokens != nil {
			storeOpts = append(storeOpts, store.WithTokenGenerator(opts.Tokens))
		}
		st, err := store.Open(opts.TraceDB, storeOpts...)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()

		ctx := context.Background()
		session, err := st.BeginSession(ctx, cfg.Name, startRight, startMiddle, startLeft)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to begin trace session", err)
		}
		if err := st.AppendSteps(ctx, session.Token, steps); err != nil {
			return WrapExitError(ExitCommandError, "failed to record trace steps", err)
		}
		result.SessionToken = session.Token
		slog.Debug("session recorded", "token", session.Token, "steps", len(steps))
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(result.Output)
}

// parsePositions parses "right,middle,left" into three integers.
func parsePositions(s string) (right, middle, left int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected right,middle,left, got %q", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("position %q is not an integer", p)
		}
		if v < 0 || v >= 26 {
			return 0, 0, 0, fmt.Errorf("position %d out of range [0,26)", v)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}
