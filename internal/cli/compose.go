package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/montesniere/internal/deptree"
	"github.com/roach88/montesniere/internal/logic"
	"github.com/roach88/montesniere/internal/merge"
	"github.com/roach88/montesniere/internal/pipeline"
	"github.com/roach88/montesniere/internal/rules"
)

// ComposeOptions holds flags for the compose command.
type ComposeOptions struct {
	*RootOptions
	Rules       string // rule file (.json, .yaml, .cue)
	ASCII       bool
	Strict      bool
	MaxAttempts int
}

// SentenceTerm is the composition result of one sentence of the input.
type SentenceTerm struct {
	Sentence int      `json:"sentence"` // 1-based position in the input
	Status   string   `json:"status"`
	Term     string   `json:"term,omitempty"`
	Type     string   `json:"type,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ComposeResult holds the output of the compose command.
type ComposeResult struct {
	Sentences []SentenceTerm `json:"sentences"`
	Composed  int            `json:"composed"`
	Total     int            `json:"total"`
}

// NewComposeCommand creates the compose command.
func NewComposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compose <file.conll>",
		Short: "Compose the term of every sentence in a CoNLL file",
		Long: `Assign terms to the nodes of every dependency tree in a CoNLL file and
merge them into one term per sentence.

Sentences are separated by blank lines. Sentences without a term are
reported with their reason.

Exit codes:
  0 - Every sentence has a term
  1 - At least one sentence has no term
  2 - Command error (unreadable rules or input)

Examples:
  montesniere compose --rules rules.json sentence.conll
  montesniere compose --rules rules.cue --ascii --format json corpus.conll`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rules, "rules", "", "rule file (required)")
	cmd.Flags().BoolVar(&opts.ASCII, "ascii", false, "fold umlauts and sharp s in terms")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject weak type matches")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", merge.DefaultMaxAttempts, "application attempts per node")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runCompose(opts *ComposeOptions, path string, cmd *cobra.Command) error {
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

	table, err := rules.LoadFile(opts.Rules)
	if err != nil {
		_ = formatter.Error(codeOf(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	formatter.VerboseLog("Loaded %d rule(s) from %s", len(table), opts.Rules)

	f, err := os.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer f.Close()

	trees, err := deptree.ReadCoNLL(f)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read CoNLL input", err)
	}

	composer := pipeline.NewComposer(logic.NewParser(), table,
		pipeline.WithASCII(opts.ASCII),
		pipeline.WithStrict(opts.Strict),
		pipeline.WithMaxAttempts(opts.MaxAttempts),
		pipeline.WithLogger(logger),
	)

	result := ComposeResult{
		Sentences: make([]SentenceTerm, 0, len(trees)),
		Total:     len(trees),
	}
	var firstFailure error
	for i, tree := range trees {
		out, err := composer.Compose(tree)
		if err != nil {
			_ = formatter.Error(codeOf(err), fmt.Sprintf("sentence %d: %v", i+1, err), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("sentence %d", i+1), err)
		}
		st := sentenceTerm(i+1, out)
		if out.OK() {
			result.Composed++
		} else if firstFailure == nil {
			firstFailure = out.Err
		}
		result.Sentences = append(result.Sentences, st)
	}

	return outputCompose(formatter, result, firstFailure)
}

func sentenceTerm(n int, out *pipeline.Outcome) SentenceTerm {
	st := SentenceTerm{Sentence: n, Status: string(out.Status)}
	if out.Term != nil {
		st.Term = out.Term.String()
		st.Type = out.Term.Type().String()
	}
	if out.Err != nil {
		st.Reason = out.Err.Error()
	}
	for _, w := range out.Warnings {
		st.Warnings = append(st.Warnings, w.String())
	}
	return st
}

func outputCompose(formatter *OutputFormatter, result ComposeResult, firstFailure error) error {
	failed := result.Total - result.Composed

	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    codeOf(firstFailure),
				Message: fmt.Sprintf("%d sentence(s) without term", failed),
			}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, st := range result.Sentences {
			if st.Term != "" {
				fmt.Fprintf(w, "%d: %s : %s\n", st.Sentence, st.Term, st.Type)
			} else {
				fmt.Fprintf(w, "%d: %s: %s\n", st.Sentence, st.Status, st.Reason)
			}
			for _, warn := range st.Warnings {
				fmt.Fprintf(w, "   warning: %s\n", warn)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d sentence(s) without term", failed))
	}
	return nil
}
