package pipeline

import (
	"errors"
	"log/slog"

	"github.com/roach88/montesniere/internal/deptree"
	"github.com/roach88/montesniere/internal/merge"
	"github.com/roach88/montesniere/internal/rules"
	"github.com/roach88/montesniere/internal/term"
)

// Status classifies the outcome of composing one sentence.
type Status string

const (
	// StatusComposed means the sentence has a term.
	StatusComposed Status = "composed"
	// StatusNoMerge means the assigned terms cannot be composed.
	StatusNoMerge Status = "no_merge"
	// StatusNoTerm means no rule assigned a term anywhere in the tree.
	StatusNoTerm Status = "no_term"
	// StatusBudget means the combiner gave up before finishing its search.
	StatusBudget Status = "budget_exceeded"
)

// Outcome is the result of composing one sentence. Only StatusComposed
// carries a Term; for every other status Err gives the reason, and callers
// should treat the sentence as having no representation.
type Outcome struct {
	Status      Status
	Term        term.Term
	Err         error
	Warnings    []merge.Warning
	Annotations *deptree.Annotations
}

// OK reports whether the sentence was composed.
func (o *Outcome) OK() bool {
	return o.Status == StatusComposed
}

// Composer assigns terms to a tree and merges them into the sentence term.
// One parser is shared by the assigner and every merger.
type Composer struct {
	parser      term.Parser
	rules       []*rules.Rule
	ascii       bool
	strict      bool
	maxAttempts int
	logger      *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithASCII folds umlauts and sharp s in assigned and fused terms.
func WithASCII(enabled bool) Option {
	return func(c *Composer) {
		c.ascii = enabled
	}
}

// WithStrict disables weak type matches during merging.
func WithStrict(strict bool) Option {
	return func(c *Composer) {
		c.strict = strict
	}
}

// WithMaxAttempts sets the combiner budget per node.
func WithMaxAttempts(n int) Option {
	return func(c *Composer) {
		c.maxAttempts = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = l
	}
}

// NewComposer returns a Composer for the given rule table.
func NewComposer(parser term.Parser, table []*rules.Rule, opts ...Option) *Composer {
	c := &Composer{
		parser:      parser,
		rules:       table,
		maxAttempts: merge.DefaultMaxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose runs assignment and merging on tree.
//
// Composition failures are reported in the Outcome. The returned error is
// reserved for broken input or rules: an unparsable rule template, a
// malformed tree or a fused name the parser rejects.
func (c *Composer) Compose(tree *deptree.Tree) (*Outcome, error) {
	ann := deptree.NewAnnotations()
	assigner := rules.NewAssigner(c.parser, c.rules,
		rules.WithASCII(c.ascii),
		rules.WithLogger(c.logger),
	)
	if err := assigner.AssignTree(tree, ann); err != nil {
		return nil, err
	}

	m := merge.New(tree, ann, c.parser,
		merge.WithASCII(c.ascii),
		merge.WithStrict(c.strict),
		merge.WithMaxAttempts(c.maxAttempts),
		merge.WithLogger(c.logger),
	)
	t, err := m.Semantics()
	out := &Outcome{
		Term:        t,
		Err:         err,
		Warnings:    m.Warnings(),
		Annotations: ann,
	}
	switch {
	case err == nil:
		out.Status = StatusComposed
	case merge.IsNoMergePossible(err):
		out.Status = StatusNoMerge
	case merge.IsBudgetExceeded(err):
		out.Status = StatusBudget
	case errors.Is(err, merge.ErrNoRepresentation):
		out.Status = StatusNoTerm
	default:
		return nil, err
	}

	if out.OK() {
		c.logger.Info("sentence composed", "term", t.String(), "warnings", len(out.Warnings))
	} else {
		c.logger.Info("sentence has no representation", "status", string(out.Status), "reason", err)
	}
	return out, nil
}
