package rules

import (
	"fmt"
	"log/slog"

	"github.com/roach88/montesniere/internal/deptree"
	"github.com/roach88/montesniere/internal/term"
)

// Assigner gives each node the term of the first rule it satisfies.
//
// Rules are tried in table order. A node that matches no rule keeps no
// term; that is not an error. The parser is injected and shared with the
// merger.
type Assigner struct {
	parser term.Parser
	rules  []*Rule
	ascii  bool
	logger *slog.Logger
}

// Option configures an Assigner.
type Option func(*Assigner)

// WithASCII folds umlauts and sharp s in the instantiated template and
// signature before parsing (see FoldASCII).
func WithASCII(enabled bool) Option {
	return func(a *Assigner) {
		a.ascii = enabled
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Assigner) {
		a.logger = l
	}
}

// NewAssigner returns an Assigner over a copy of rules.
func NewAssigner(parser term.Parser, rules []*Rule, opts ...Option) *Assigner {
	a := &Assigner{
		parser: parser,
		rules:  append([]*Rule(nil), rules...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AssignError reports a rule whose instantiated template could not be
// parsed.
type AssignError struct {
	Address  int
	Rule     int
	Template string
	Err      error
}

func (e *AssignError) Error() string {
	return fmt.Sprintf("node %d, rule %d: parse %q: %v", e.Address, e.Rule, e.Template, e.Err)
}

func (e *AssignError) Unwrap() error { return e.Err }

// Match returns the index of the first rule that holds at addr, or -1.
func (a *Assigner) Match(t *deptree.Tree, addr int) int {
	for i, r := range a.rules {
		if r.Matches(t, addr) {
			return i
		}
	}
	return -1
}

// AssignNode assigns a term to the node at addr. The effective lemma comes
// from ann, so lemma overrides set before assignment are honored. Fusion
// runs later, during merging, and does not reassign.
func (a *Assigner) AssignNode(t *deptree.Tree, ann *deptree.Annotations, addr int) error {
	n, ok := t.Node(addr)
	if !ok {
		return &deptree.StructureError{Address: addr, Message: "no such node"}
	}
	i := a.Match(t, addr)
	if i < 0 {
		a.logger.Debug("no rule matched", "address", addr, "word", n.Word, "tag", n.Tag)
		return nil
	}

	pattern, sig := a.rules[i].Instantiate(n, ann.Lemma(t, addr))
	if a.ascii {
		pattern, sig = FoldASCII(pattern), foldSignature(sig)
	}
	tm, err := a.parser.Parse(pattern, sig)
	if err != nil {
		return &AssignError{Address: addr, Rule: i, Template: pattern, Err: err}
	}
	ann.SetTerm(addr, tm)
	a.logger.Debug("term assigned",
		"address", addr,
		"word", n.Word,
		"rule", i,
		"term", tm.String(),
		"type", tm.Type().String(),
	)
	return nil
}

// AssignTree assigns terms to every node except the virtual root, in
// address order. It stops at the first parse failure.
func (a *Assigner) AssignTree(t *deptree.Tree, ann *deptree.Annotations) error {
	for _, addr := range t.Addresses() {
		if addr == 0 {
			continue
		}
		if err := a.AssignNode(t, ann, addr); err != nil {
			return err
		}
	}
	return nil
}

func foldSignature(sig map[string]string) map[string]string {
	out := make(map[string]string, len(sig))
	for k, v := range sig {
		out[FoldASCII(k)] = FoldASCII(v)
	}
	return out
}
