package merge

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes of composition failures.
const (
	ErrCodeNoMerge = "E301" // no application order composes all terms
	ErrCodeBudget  = "E302" // attempt budget exhausted
	ErrCodeFusion  = "E303" // fused name could not be parsed
)

// ErrNoRepresentation is returned by Semantics when no node of the tree
// contributes a term.
var ErrNoRepresentation = errors.New("sentence has no term")

// NoMergePossibleError is returned when every pairing and direction of a
// set of terms has been tried without composing them into one term.
type NoMergePossibleError struct {
	// Address is the node whose merge failed, -1 when the combiner was
	// called directly.
	Address int

	// Keys and Types describe the unmerged entries, in entry order.
	Keys  []string
	Types []string
	Terms []string
}

func (e *NoMergePossibleError) Error() string {
	var b strings.Builder
	b.WriteString(ErrCodeNoMerge)
	b.WriteString(": no merge possible")
	if e.Address >= 0 {
		fmt.Fprintf(&b, " at node %d", e.Address)
	}
	fmt.Fprintf(&b, ": types [%s]", strings.Join(e.Types, ", "))
	return b.String()
}

// IsNoMergePossible returns true if err is or wraps a
// *NoMergePossibleError.
func IsNoMergePossible(err error) bool {
	var ne *NoMergePossibleError
	return errors.As(err, &ne)
}

func noMerge(entries []Entry) *NoMergePossibleError {
	e := &NoMergePossibleError{Address: -1}
	for _, en := range entries {
		e.Keys = append(e.Keys, en.Key)
		e.Types = append(e.Types, en.Term.Type().String())
		e.Terms = append(e.Terms, en.Term.String())
	}
	return e
}

// FusionError reports a fused named entity whose term could not be parsed.
type FusionError struct {
	Address int
	Lemma   string
	Err     error
}

func (e *FusionError) Error() string {
	return fmt.Sprintf("%s: fusing %q at node %d: %v", ErrCodeFusion, e.Lemma, e.Address, e.Err)
}

func (e *FusionError) Unwrap() error { return e.Err }
