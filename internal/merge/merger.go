package merge

import (
	"strconv"

	"github.com/roach88/montesniere/internal/deptree"
	"github.com/roach88/montesniere/internal/term"
)

// Merger composes the terms of a tree bottom-up.
//
// A Merger is bound to one tree and its annotation table. Assigned terms
// are read from the table and merged terms written back to it; the tree
// itself is never modified. Not safe for concurrent use.
type Merger struct {
	tree     *deptree.Tree
	ann      *deptree.Annotations
	parser   term.Parser
	combiner *Combiner
	cfg      config
}

// New returns a Merger over tree. parser is used for fused named entities
// and should be the one the assigner used.
func New(tree *deptree.Tree, ann *deptree.Annotations, parser term.Parser, opts ...Option) *Merger {
	cfg := newConfig(opts)
	return &Merger{
		tree:     tree,
		ann:      ann,
		parser:   parser,
		combiner: &Combiner{cfg: cfg},
		cfg:      cfg,
	}
}

// MergeWithChildren computes the merged term of addr from its own term and
// the merged terms of its dependents, merging unmerged dependents first.
//
// A node already merged is left alone unless force is set; force applies
// to addr only, merged dependents are reused. A leaf's merged term is its
// own term. A node with nothing to combine gets no merged term.
func (m *Merger) MergeWithChildren(addr int, force bool) error {
	if _, ok := m.tree.Node(addr); !ok {
		return &deptree.StructureError{Address: addr, Message: "no such node"}
	}
	ann := m.ann.Get(addr)
	if ann.Merged && !force {
		m.cfg.logger.Debug("node already merged", "address", addr)
		return nil
	}

	deps := m.tree.Dependents(addr)
	if len(deps) == 0 {
		m.ann.SetMerged(addr, ann.Term)
		return nil
	}
	for _, d := range deps {
		if !m.ann.Get(d).Merged {
			if err := m.MergeWithChildren(d, force); err != nil {
				return err
			}
		}
	}

	if partner, ok := m.fusionPartner(addr, deps); ok {
		t, err := m.fuse(addr, partner)
		if err != nil {
			return err
		}
		m.ann.SetMerged(addr, t)
		return nil
	}

	var entries []Entry
	if ann.Term != nil {
		entries = append(entries, Entry{Key: strconv.Itoa(addr), Term: ann.Term})
	}
	for _, d := range deps {
		if t := m.ann.Get(d).MergedTerm; t != nil {
			entries = append(entries, Entry{Key: strconv.Itoa(d), Term: t})
		}
	}

	t, err := m.combiner.combineAt(addr, entries)
	if err != nil {
		return err
	}
	m.ann.SetMerged(addr, t)
	if t != nil {
		m.cfg.logger.Debug("node merged",
			"address", addr,
			"entries", len(entries),
			"term", t.String(),
			"type", t.Type().String(),
		)
	}
	return nil
}

// Semantics merges the sentence root and returns its merged term. It fails
// with a *deptree.StructureError for a tree without a single root and
// with ErrNoRepresentation when nothing in the tree carries a term.
func (m *Merger) Semantics() (term.Term, error) {
	root, err := m.tree.Root()
	if err != nil {
		return nil, err
	}
	if err := m.MergeWithChildren(root, false); err != nil {
		return nil, err
	}
	t := m.ann.Get(root).MergedTerm
	if t == nil {
		return nil, ErrNoRepresentation
	}
	return t, nil
}

// Warnings returns the weak-match warnings recorded so far.
func (m *Merger) Warnings() []Warning {
	return m.combiner.Warnings()
}
