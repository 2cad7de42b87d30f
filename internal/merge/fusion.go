package merge

import (
	"github.com/roach88/montesniere/internal/rules"
	"github.com/roach88/montesniere/internal/term"
)

// Labels that trigger named-entity fusion (TIGER tag set).
const (
	ProperNounTag    = "NE"  // proper noun
	NameComponentRel = "PNC" // proper noun component
	SubjectRel       = "SB"
)

// fusionPartner returns the single proper-noun component among the
// dependents of addr, if addr is a proper noun with exactly one.
func (m *Merger) fusionPartner(addr int, deps []int) (int, bool) {
	n, _ := m.tree.Node(addr)
	if n.Tag != ProperNounTag {
		return 0, false
	}
	partner, count := 0, 0
	for _, d := range deps {
		dn, _ := m.tree.Node(d)
		if dn.Tag == ProperNounTag && dn.Rel == NameComponentRel {
			partner = d
			count++
		}
	}
	return partner, count == 1
}

// fuse joins the lemmas of partner and addr ("Heinrich" + "Müller" gives
// "Heinrich_Müller", and a chain Hans -> Heinrich -> Müller gives
// "Hans_Heinrich_Müller"), records the joined lemma and builds its term: a
// generalized quantifier for subjects, an entity otherwise.
func (m *Merger) fuse(addr, partner int) (term.Term, error) {
	n, _ := m.tree.Node(addr)

	// The partner contributes its effective lemma, which already carries
	// any components fused into it below. addr contributes its tree lemma
	// so that a forced re-merge yields the same name.
	lemma := m.ann.Lemma(m.tree, partner) + "_" + n.Lemma
	m.ann.SetLemma(addr, lemma)

	name := lemma
	if m.cfg.ascii {
		name = rules.FoldASCII(name)
	}
	pattern, sig := name, map[string]string{name: "e"}
	if n.Rel == SubjectRel {
		pattern = `\P. P(` + name + `)`
		sig["P"] = "<e,t>"
	}

	t, err := m.parser.Parse(pattern, sig)
	if err != nil {
		return nil, &FusionError{Address: addr, Lemma: lemma, Err: err}
	}
	m.cfg.logger.Debug("named entity fused",
		"address", addr,
		"partner", partner,
		"lemma", lemma,
		"term", t.String(),
	)
	return t, nil
}
