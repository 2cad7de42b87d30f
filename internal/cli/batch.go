package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/montesniere/internal/harness"
	"github.com/roach88/montesniere/internal/merge"
	"github.com/roach88/montesniere/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	DBPath      string // record the run here when set
	MaxAttempts int

	ids store.IDGenerator
}

// BatchResult holds the output of the batch command.
type BatchResult struct {
	RunID     string                   `json:"run_id,omitempty"`
	Suite     string                   `json:"suite"`
	Passed    int                      `json:"passed"`
	Failed    int                      `json:"failed"`
	Total     int                      `json:"total"`
	Sentences []harness.SentenceResult `json:"sentences"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	return newBatchCommand(&BatchOptions{RootOptions: rootOpts, ids: store.UUIDv7Generator{}})
}

func newBatchCommand(opts *BatchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <suite.yaml>",
		Short: "Compose a sentence suite and check expected terms",
		Long: `Compose every sentence of a YAML suite and compare the outcome with the
expected status, term and type. Terms are compared up to renaming of
bound variables.

With --db the run is recorded in a SQLite database.

Exit codes:
  0 - All sentences met their expectation
  1 - One or more sentences failed
  2 - Command error (invalid suite, rules or database)

Examples:
  montesniere batch testdata/suites/heuristic.yaml
  montesniere batch --db runs.db --format json suite.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this database")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", merge.DefaultMaxAttempts, "application attempts per node")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logger, closeLog, err := newLogger(opts.RootOptions, formatter.GetErrWriter())
	if err != nil {
		return WrapExitError(ExitCommandError, "logging setup failed", err)
	}
	defer closeLog()

	suite, err := harness.LoadSuite(path)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}
	formatter.VerboseLog("Running suite %s (%d sentence(s))", suite.Name, len(suite.Sentences))

	result, err := harness.Run(cmd.Context(), suite,
		harness.WithLogger(logger),
		harness.WithMaxAttempts(opts.MaxAttempts),
	)
	if err != nil {
		_ = formatter.Error(codeOf(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "suite run failed", err)
	}

	out := BatchResult{
		Suite:     result.Suite,
		Total:     len(result.Sentences),
		Failed:    len(result.Failed()),
		Sentences: result.Sentences,
	}
	out.Passed = out.Total - out.Failed

	if opts.DBPath != "" {
		runID, err := recordRun(cmd, opts, suite, result)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		out.RunID = runID
		formatter.VerboseLog("Recorded run %s in %s", runID, opts.DBPath)
	}

	return outputBatch(formatter, out)
}

// recordRun stores the result and returns the new run ID.
func recordRun(cmd *cobra.Command, opts *BatchOptions, suite *harness.Suite, result *harness.Result) (string, error) {
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run := &store.Run{
		ID:     opts.ids.Generate(),
		Suite:  suite.Name,
		Rules:  suite.Rules,
		ASCII:  suite.ASCII,
		Strict: suite.Strict,
		Pass:   result.Pass,
	}
	for i, s := range result.Sentences {
		run.Sentences = append(run.Sentences, store.SentenceRecord{
			Index:    i,
			Name:     s.Name,
			Status:   s.Status,
			Term:     s.Term,
			Type:     s.Type,
			Reason:   s.Reason,
			Warnings: s.Warnings,
			Errors:   s.Errors,
		})
	}
	if _, err := st.WriteRun(cmd.Context(), run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func outputBatch(formatter *OutputFormatter, result BatchResult) error {
	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_BATCH_FAILED",
				Message: fmt.Sprintf("%d sentence(s) failed", result.Failed),
			}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, s := range result.Sentences {
			if s.Pass() {
				fmt.Fprintf(w, "✓ %s\n", s.Name)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", s.Name)
			for _, e := range s.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Batch Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		if result.RunID != "" {
			fmt.Fprintf(w, "Recorded run %s\n", result.RunID)
		}
	}

	if result.Failed > 0 {
		// Expectation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d sentence(s) failed", result.Failed))
	}
	if formatter.Format != "json" {
		fmt.Fprintln(formatter.Writer, "✓ All sentences passed")
	}
	return nil
}
