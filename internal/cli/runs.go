package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/montesniere/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	DBPath string
}

// RunSummary is one line of the runs listing.
type RunSummary struct {
	ID    string `json:"id"`
	Seq   int64  `json:"seq"`
	Suite string `json:"suite"`
	Rules string `json:"rules"`
	Pass  bool   `json:"pass"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded batch runs",
		Long: `List the batch runs recorded in a database, oldest first.

With a run ID, print the sentences of that run.

Examples:
  montesniere runs --db runs.db
  montesniere runs --db runs.db 0192f0c4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(opts, args[0], cmd)
			}
			return runListRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runListRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ReadRuns(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, RunSummary{ID: r.ID, Seq: r.Seq, Suite: r.Suite, Rules: r.Rules, Pass: r.Pass})
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}
	w := formatter.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, s := range summaries {
		mark := "✓"
		if !s.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %3d  %s  %s  (%s)\n", mark, s.Seq, s.ID, s.Suite, s.Rules)
	}
	return nil
}

func runShowRun(opts *RunsOptions, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "unknown run", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return formatter.Success(run)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "Run %d  %s\n", run.Seq, run.ID)
	fmt.Fprintf(w, "Suite: %s  Rules: %s  ASCII: %t  Strict: %t\n\n", run.Suite, run.Rules, run.ASCII, run.Strict)
	for _, s := range run.Sentences {
		mark := "✓"
		if !s.Pass() {
			mark = "✗"
		}
		detail := s.Term
		if detail == "" {
			detail = s.Reason
		}
		fmt.Fprintf(w, "%s %-20s %-16s %s\n", mark, s.Name, s.Status, detail)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d of %d sentence(s) failed\n", run.Failed(), len(run.Sentences))
	return nil
}
