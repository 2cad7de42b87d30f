package term

import (
	"errors"
	"fmt"
)

// Type is the type of a term: atomic (entity, truth value), functional, or
// not yet determined.
type Type interface {
	fmt.Stringer

	// Equal reports exact type identity.
	Equal(other Type) bool

	// Matches is the looser compatibility relation. Undetermined parts of
	// either type match anything.
	Matches(other Type) bool

	// Domain returns the argument type of a functional type. The second
	// result is false for atomic types.
	Domain() (Type, bool)
}

// Term is an immutable typed term. Operations return new terms.
type Term interface {
	fmt.Stringer

	Type() Type

	// ApplyTo builds the application of the receiver to arg. It fails with
	// a *TypeError when the application cannot be typed.
	ApplyTo(arg Term) (Term, error)

	// Simplify reduces the term to normal form and resolves its types.
	Simplify() (Term, error)
}

// Parser turns a term template and a signature (name -> type string) into a
// typed term. A single Parser is shared by the assigner and the merger.
type Parser interface {
	Parse(template string, signature map[string]string) (Term, error)
}

// TypeError signals a type mismatch or an inconsistent signature.
type TypeError struct {
	Expr    string // offending expression, if known
	Message string
}

func (e *TypeError) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("type error in %s: %s", e.Expr, e.Message)
	}
	return "type error: " + e.Message
}

// IsTypeError returns true if err is or wraps a *TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}
