package condition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/roach88/montesniere/internal/deptree"
)

// Relation is the comparison a Condition applies between a node attribute
// and its object set.
type Relation int

const (
	// Element holds when the attribute value is in the object set. For
	// key collections it holds when any key is in the object set.
	Element Relation = iota
	NotElement
	// Subset holds when the attribute, read as a set, is a subset of the
	// object set.
	Subset
	NotSubset
	// Superset holds when the attribute, read as a set, contains every
	// member of the object set.
	Superset
	NotSuperset
)

var relationNames = [...]string{
	Element:     "element",
	NotElement:  "notElement",
	Subset:      "subset",
	NotSubset:   "notSubset",
	Superset:    "superset",
	NotSuperset: "notSuperset",
}

// relationTokens maps every accepted spelling to its Relation.
var relationTokens = map[string]Relation{
	"element":      Element,
	"notElement":   NotElement,
	"not_element":  NotElement,
	"subset":       Subset,
	"notSubset":    NotSubset,
	"not_subset":   NotSubset,
	"superset":     Superset,
	"notSuperset":  NotSuperset,
	"not_superset": NotSuperset,
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return fmt.Sprintf("Relation(%d)", int(r))
	}
	return relationNames[r]
}

// Valid reports whether r is one of the six relations.
func (r Relation) Valid() bool {
	return r >= Element && r <= NotSuperset
}

// ParseRelation returns the Relation spelled s.
func ParseRelation(s string) (Relation, bool) {
	r, ok := relationTokens[s]
	return r, ok
}

// Condition is a predicate over one node attribute.
//
// A Condition is immutable after construction. Its object and ascent sets
// are private copies.
type Condition struct {
	subject    string
	relation   Relation
	object     *set.Set[string]
	transeunda *set.Set[string]
	negated    bool
}

// New builds a Condition. Subject must name a node attribute and the
// object set must not be empty.
func New(subject string, rel Relation, object, transeunda []string, negated bool) (*Condition, error) {
	if !deptree.IsAttribute(subject) {
		return nil, &SyntaxError{Message: fmt.Sprintf("unknown subject %q", subject)}
	}
	if !rel.Valid() {
		return nil, &SyntaxError{Message: fmt.Sprintf("unknown relation %s", rel)}
	}
	if len(object) == 0 {
		return nil, &SyntaxError{Message: "empty object set"}
	}
	return &Condition{
		subject:    subject,
		relation:   rel,
		object:     set.From(object),
		transeunda: set.From(transeunda),
		negated:    negated,
	}, nil
}

// Subject returns the attribute the condition reads.
func (c *Condition) Subject() string { return c.subject }

// Relation returns the comparison.
func (c *Condition) Relation() Relation { return c.relation }

// Object returns the object set, sorted.
func (c *Condition) Object() []string { return sorted(c.object) }

// Transeunda returns the relation labels the condition ascends across,
// sorted.
func (c *Condition) Transeunda() []string { return sorted(c.transeunda) }

// Negated reports whether the result is inverted.
func (c *Condition) Negated() bool { return c.negated }

// Evaluate tests the node at addr.
//
// If the node fails and its relation label is in the ascent set, the test
// is repeated on its head, and so on up the tree. The ascent stops at the
// first success, at a node whose label is not in the ascent set, or at the
// virtual root. Negation is applied to the final result. An unknown address
// counts as unsatisfied.
func (c *Condition) Evaluate(t *deptree.Tree, addr int) bool {
	n, ok := t.Node(addr)
	if !ok {
		return c.negated
	}
	sat := c.test(n)
	for hops := 0; !sat && n.Address != 0 && c.transeunda.Contains(n.Rel) && hops < t.Len(); hops++ {
		if n, ok = t.Node(n.Head); !ok {
			break
		}
		sat = c.test(n)
	}
	return sat != c.negated
}

func (c *Condition) test(n deptree.Node) bool {
	v, ok := n.Attr(c.subject)
	if !ok {
		return false
	}
	var subj *set.Set[string]
	if v.IsKeys {
		subj = set.From(v.Keys)
	} else {
		subj = set.From([]string{v.Scalar})
	}

	switch c.relation {
	case Element:
		return c.anyIn(subj)
	case NotElement:
		return !c.anyIn(subj)
	case Subset:
		return c.object.ContainsSlice(subj.Slice())
	case NotSubset:
		return !c.object.ContainsSlice(subj.Slice())
	case Superset:
		return subj.ContainsSlice(c.object.Slice())
	case NotSuperset:
		return !subj.ContainsSlice(c.object.Slice())
	default:
		return false
	}
}

func (c *Condition) anyIn(subj *set.Set[string]) bool {
	for _, s := range subj.Slice() {
		if c.object.Contains(s) {
			return true
		}
	}
	return false
}

// String renders the condition in the textual rule syntax. Parse(c.String())
// yields an equal condition.
func (c *Condition) String() string {
	var b strings.Builder
	if c.negated {
		b.WriteString("! ")
	}
	b.WriteString(c.subject)
	b.WriteString(" ")
	b.WriteString(c.relation.String())
	if c.transeunda.Size() > 0 {
		b.WriteString("^{")
		b.WriteString(strings.Join(c.Transeunda(), ", "))
		b.WriteString("}")
	}
	b.WriteString(" {")
	b.WriteString(strings.Join(c.Object(), ", "))
	b.WriteString("}")
	return b.String()
}

func sorted(s *set.Set[string]) []string {
	out := s.Slice()
	sort.Strings(out)
	return out
}
