package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/montesniere/internal/condition"
	"github.com/roach88/montesniere/internal/deptree"
)

// Rule assigns a term template to the nodes that satisfy all of its
// conditions. An empty condition list matches every node.
type Rule struct {
	Conditions []*condition.Condition
	SemRepPat  string
	SemSig     map[string]string

	pattern *template
	sig     []sigEntry
}

type sigEntry struct {
	key   *template
	value *template
}

// TemplateError reports a malformed template or signature entry.
type TemplateError struct {
	Template string
	Message  string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid template %q: %s", e.Template, e.Message)
}

// IsTemplateError returns true if err is or wraps a *TemplateError.
func IsTemplateError(err error) bool {
	var te *TemplateError
	return errors.As(err, &te)
}

// NewRule parses the condition strings and checks the placeholders of the
// template and signature. Errors wrap *condition.SyntaxError or
// *TemplateError.
func NewRule(conditions []string, semRepPat string, semSig map[string]string) (*Rule, error) {
	r := &Rule{SemRepPat: semRepPat, SemSig: make(map[string]string, len(semSig))}

	for i, s := range conditions {
		c, err := condition.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		r.Conditions = append(r.Conditions, c)
	}

	if semRepPat == "" {
		return nil, &TemplateError{Message: "semRepPat is empty"}
	}
	pattern, err := parseTemplate(semRepPat)
	if err != nil {
		return nil, &TemplateError{Template: semRepPat, Message: err.Error()}
	}
	r.pattern = pattern

	keys := make([]string, 0, len(semSig))
	for k := range semSig {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := semSig[k]
		r.SemSig[k] = v
		kt, err := parseTemplate(k)
		if err != nil {
			return nil, &TemplateError{Template: k, Message: err.Error()}
		}
		vt, err := parseTemplate(v)
		if err != nil {
			return nil, &TemplateError{Template: v, Message: err.Error()}
		}
		r.sig = append(r.sig, sigEntry{key: kt, value: vt})
	}
	return r, nil
}

// MustRule is like NewRule but panics on error.
func MustRule(conditions []string, semRepPat string, semSig map[string]string) *Rule {
	r, err := NewRule(conditions, semRepPat, semSig)
	if err != nil {
		panic(err)
	}
	return r
}

// Matches reports whether every condition holds at addr.
func (r *Rule) Matches(t *deptree.Tree, addr int) bool {
	for _, c := range r.Conditions {
		if !c.Evaluate(t, addr) {
			return false
		}
	}
	return true
}

// Instantiate fills the template and the signature with the attributes of
// n, using lemma as the lemma.
func (r *Rule) Instantiate(n deptree.Node, lemma string) (string, map[string]string) {
	sig := make(map[string]string, len(r.sig))
	for _, e := range r.sig {
		sig[e.key.expand(n, lemma)] = e.value.expand(n, lemma)
	}
	return r.pattern.expand(n, lemma), sig
}

func (r *Rule) String() string {
	conds := make([]string, len(r.Conditions))
	for i, c := range r.Conditions {
		conds[i] = c.String()
	}
	return fmt.Sprintf("%v => %s", conds, r.SemRepPat)
}
