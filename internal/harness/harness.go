package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/montesniere/internal/deptree"
	"github.com/roach88/montesniere/internal/logic"
	"github.com/roach88/montesniere/internal/pipeline"
	"github.com/roach88/montesniere/internal/rules"
)

// Harness runs the sentences of one suite.
type Harness struct {
	parser   *logic.Parser
	composer *pipeline.Composer
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	maxAttempts int
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxAttempts sets the combiner budget per node.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// Run composes every sentence of suite and checks its expectation.
//
// Sentences are processed in order. A sentence that fails its expectation
// is recorded in the result; Run only returns an error when the rule
// table or a CoNLL file cannot be used, or when ctx is cancelled.
func Run(ctx context.Context, suite *Suite, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	table, err := rules.LoadFile(suite.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	copts := []pipeline.Option{
		pipeline.WithASCII(suite.ASCII),
		pipeline.WithStrict(suite.Strict),
		pipeline.WithLogger(o.logger),
	}
	if o.maxAttempts > 0 {
		copts = append(copts, pipeline.WithMaxAttempts(o.maxAttempts))
	}
	parser := logic.NewParser()
	h := &Harness{
		parser:   parser,
		composer: pipeline.NewComposer(parser, table, copts...),
		logger:   o.logger,
	}

	result := NewResult(suite.Name)
	for _, sent := range suite.Sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr, err := h.runSentence(sent)
		if err != nil {
			return nil, fmt.Errorf("sentence %q: %w", sent.Name, err)
		}
		result.Add(sr)
	}
	h.logger.Info("suite finished",
		"suite", suite.Name,
		"sentences", len(result.Sentences),
		"failed", len(result.Failed()),
	)
	return result, nil
}

func (h *Harness) runSentence(sent Sentence) (SentenceResult, error) {
	tree, err := readTree(sent.CoNLL)
	if err != nil {
		return SentenceResult{}, err
	}
	out, err := h.composer.Compose(tree)
	if err != nil {
		return SentenceResult{}, err
	}

	sr := SentenceResult{Name: sent.Name, Status: string(out.Status)}
	if out.Term != nil {
		sr.Term = out.Term.String()
		sr.Type = out.Term.Type().String()
	}
	if out.Err != nil {
		sr.Reason = out.Err.Error()
	}
	for _, w := range out.Warnings {
		sr.Warnings = append(sr.Warnings, w.String())
	}
	for _, err := range checkExpectation(sent.Name, sent.Expect, out, h.parser) {
		sr.Errors = append(sr.Errors, err.Error())
	}
	h.logger.Debug("sentence checked", "sentence", sent.Name, "status", sr.Status, "pass", sr.Pass())
	return sr, nil
}

func readTree(path string) (*deptree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CoNLL file: %w", err)
	}
	return deptree.ParseCoNLL(string(data))
}
