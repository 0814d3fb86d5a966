package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/rotorwerk/internal/rotor"
	"github.com/roach88/rotorwerk/internal/store"
)

// TraceOptions holds flags for the trace subcommands.
type TraceOptions struct {
	*RootOptions
	Database string
}

// SessionTrace is the success payload of `trace show`.
type SessionTrace struct {
	Session store.Session `json:"session"`
	Steps   []TraceStep   `json:"steps"`
}

// TraceStep is one recorded keystroke in JSON-friendly form.
type TraceStep struct {
	Seq    int    `json:"seq"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Right  int    `json:"right"`
	Middle int    `json:"middle"`
	Left   int    `json:"left"`
}

// NewTraceCommand creates the trace command group.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded transform sessions",
		Long: `Inspect the sessions recorded by transform --trace-db.

"trace list" shows every session; "trace show <token>" prints a session's
per-character signal trace.`,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newTraceListCommand(opts))
	cmd.AddCommand(newTraceShowCommand(opts))
	return cmd
}

func newTraceListCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List recorded sessions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceList(opts, cmd)
		},
	}
}

func newTraceShowCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <session-token>",
		Short:         "Show one session's signal trace",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceShow(opts, args[0], cmd)
		},
	}
}

// openTraceDB opens an existing trace database. A missing file is a command
// error; trace never creates databases.
func openTraceDB(opts *TraceOptions) (*store.Store, error) {
	if _, err := os.Stat(opts.Database); err != nil {
		return nil, WrapExitError(ExitCommandError, "trace database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	return st, nil
}

func runTraceList(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openTraceDB(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.ListSessions(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	if opts.Format == "json" {
		return formatter.Success(sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  start=%d,%d,%d  steps=%d  %s\n",
			s.Token, s.SettingsName, s.RightStart, s.MiddleStart, s.LeftStart, s.StepCount, s.CreatedAt)
	}
	return nil
}

func runTraceShow(opts *TraceOptions, token string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openTraceDB(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	session, steps, err := st.ReadSession(context.Background(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	trace := SessionTrace{Session: *session, Steps: toTraceSteps(steps)}
	if opts.Format == "json" {
		return formatter.Success(trace)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "session %s  settings=%q  start=%d,%d,%d\n",
		session.Token, session.SettingsName, session.RightStart, session.MiddleStart, session.LeftStart)
	for _, step := range trace.Steps {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s -> %s  positions=%d,%d,%d\n",
			step.Seq, step.Input, step.Output, step.Right, step.Middle, step.Left)
	}
	return nil
}

func toTraceSteps(steps []rotor.Step) []TraceStep {
	out := make([]TraceStep, len(steps))
	for i, s := range steps {
		out[i] = TraceStep{
			Seq:    s.Seq,
			Input:  string(s.Input),
			Output: string(s.Output),
			Right:  s.Right,
			Middle: s.Middle,
			Left:   s.Left,
		}
	}
	return out
}
