package deptree

import (
	"github.com/roach88/montesniere/internal/term"
)

// Annotation holds what the composition passes learn about one node.
type Annotation struct {
	// Term is the candidate term assigned by the rule table; nil when no
	// rule matched.
	Term term.Term

	// MergedTerm is the composition of Term with the subtree below the
	// node; nil when the subtree contributes nothing.
	MergedTerm term.Term

	// Merged is set once the merge pass has finished the node.
	Merged bool

	// Lemma overrides the tree's lemma when non-empty. Named-entity fusion
	// writes it on the fused head and reads it back when that head is
	// itself the component of a longer name. Assignment reads it too, so
	// an override set before assignment reaches the rule templates.
	Lemma string
}

// Annotations is a side table of per-node annotations keyed by address.
// The tree it describes stays read-only. Not safe for concurrent use.
type Annotations struct {
	byAddr map[int]Annotation
}

// NewAnnotations returns an empty table.
func NewAnnotations() *Annotations {
	return &Annotations{byAddr: make(map[int]Annotation)}
}

// Get returns the annotation of addr; the zero Annotation if none exists.
func (a *Annotations) Get(addr int) Annotation {
	return a.byAddr[addr]
}

// SetTerm records the assigned term of addr.
func (a *Annotations) SetTerm(addr int, t term.Term) {
	ann := a.byAddr[addr]
	ann.Term = t
	a.byAddr[addr] = ann
}

// SetMerged records the merged term of addr and marks it merged.
func (a *Annotations) SetMerged(addr int, t term.Term) {
	ann := a.byAddr[addr]
	ann.MergedTerm = t
	ann.Merged = true
	a.byAddr[addr] = ann
}

// SetLemma overrides the lemma of addr.
func (a *Annotations) SetLemma(addr int, lemma string) {
	ann := a.byAddr[addr]
	ann.Lemma = lemma
	a.byAddr[addr] = ann
}

// Lemma returns the effective lemma of addr: the override if set,
// otherwise the lemma in the tree.
func (a *Annotations) Lemma(t *Tree, addr int) string {
	if ann, ok := a.byAddr[addr]; ok && ann.Lemma != "" {
		return ann.Lemma
	}
	n, _ := t.Node(addr)
	return n.Lemma
}
