package logic

import (
	"fmt"
	"regexp"

	"github.com/roach88/montesniere/internal/term"
)

// Expr is a node of the term language. Every Expr is immutable and
// satisfies term.Term.
type Expr interface {
	term.Term
	expr()
}

// Quantifier is the binder of a Quantified formula.
type Quantifier int

const (
	Exists Quantifier = iota
	All
)

func (q Quantifier) String() string {
	if q == All {
		return "all"
	}
	return "exists"
}

// Operator is a binary connective.
type Operator int

const (
	And Operator = iota
	Or
	Implies
	Iff
	Equals
	NotEquals
)

var operatorSymbols = [...]string{
	And:       "&",
	Or:        "|",
	Implies:   "->",
	Iff:       "<->",
	Equals:    "=",
	NotEquals: "!=",
}

func (o Operator) String() string { return operatorSymbols[o] }

// Variable is an occurrence of a name: a bound variable, a free variable
// or a constant. T is its type (Any when unknown).
type Variable struct {
	Name string
	T    Type
}

// Lambda is the abstraction \Var.Body.
type Lambda struct {
	Var  Variable
	Body Expr
}

// Quantified is exists Var.Body or all Var.Body.
type Quantified struct {
	Quant Quantifier
	Var   Variable
	Body  Expr
}

// Negation is -Body.
type Negation struct {
	Body Expr
}

// Binary is a formula joined by a connective.
type Binary struct {
	Op    Operator
	Left  Expr
	Right Expr
}

// Application is Fn(Arg).
type Application struct {
	Fn  Expr
	Arg Expr
}

func (Variable) expr()    {}
func (Lambda) expr()      {}
func (Quantified) expr()  {}
func (Negation) expr()    {}
func (Binary) expr()      {}
func (Application) expr() {}

var (
	individualVarPattern = regexp.MustCompile(`^[a-z][0-9]*$`)
	functionVarPattern   = regexp.MustCompile(`^[A-Z][0-9]*$`)
)

// isIndividualVar reports names like x, y, z2. They always have type e.
func isIndividualVar(name string) bool { return individualVarPattern.MatchString(name) }

// isFunctionVar reports names like P, Q, R1.
func isFunctionVar(name string) bool { return functionVarPattern.MatchString(name) }

// isConstant reports names that are neither individual nor function
// variables when they occur free.
func isConstant(name string) bool { return !isIndividualVar(name) && !isFunctionVar(name) }

// typeOf computes the type of e from the types stored on its variables.
func typeOf(e Expr) Type {
	switch x := e.(type) {
	case Variable:
		if x.T == nil {
			return Any
		}
		return x.T
	case Lambda:
		return Func(typeOf(x.Var), typeOf(x.Body))
	case Application:
		switch ft := typeOf(x.Fn).(type) {
		case ComplexType:
			return ft.Second
		default:
			return Any
		}
	case Quantified, Negation, Binary:
		return Truth
	default:
		panic(fmt.Sprintf("logic: unknown expression %T", e))
	}
}

func (v Variable) Type() term.Type    { return typeOf(v) }
func (l Lambda) Type() term.Type      { return typeOf(l) }
func (q Quantified) Type() term.Type  { return typeOf(q) }
func (n Negation) Type() term.Type    { return typeOf(n) }
func (b Binary) Type() term.Type      { return typeOf(b) }
func (a Application) Type() term.Type { return typeOf(a) }

func (v Variable) ApplyTo(arg term.Term) (term.Term, error)    { return applyTo(v, arg) }
func (l Lambda) ApplyTo(arg term.Term) (term.Term, error)      { return applyTo(l, arg) }
func (q Quantified) ApplyTo(arg term.Term) (term.Term, error)  { return applyTo(q, arg) }
func (n Negation) ApplyTo(arg term.Term) (term.Term, error)    { return applyTo(n, arg) }
func (b Binary) ApplyTo(arg term.Term) (term.Term, error)      { return applyTo(b, arg) }
func (a Application) ApplyTo(arg term.Term) (term.Term, error) { return applyTo(a, arg) }

func (v Variable) Simplify() (term.Term, error)    { return simplify(v) }
func (l Lambda) Simplify() (term.Term, error)      { return simplify(l) }
func (q Quantified) Simplify() (term.Term, error)  { return simplify(q) }
func (n Negation) Simplify() (term.Term, error)    { return simplify(n) }
func (b Binary) Simplify() (term.Term, error)      { return simplify(b) }
func (a Application) Simplify() (term.Term, error) { return simplify(a) }

func (v Variable) String() string    { return format(v) }
func (l Lambda) String() string      { return format(l) }
func (q Quantified) String() string  { return format(q) }
func (n Negation) String() string    { return format(n) }
func (b Binary) String() string      { return format(b) }
func (a Application) String() string { return format(a) }

// applyTo builds fn(arg) and type checks the application.
func applyTo(fn Expr, arg term.Term) (term.Term, error) {
	a, ok := arg.(Expr)
	if !ok {
		return nil, &term.TypeError{
			Expr:    fn.String(),
			Message: fmt.Sprintf("cannot apply to foreign term %T", arg),
		}
	}
	return infer(Application{Fn: fn, Arg: a}, nil)
}

// simplify beta-reduces e to normal form and re-infers its types.
func simplify(e Expr) (term.Term, error) {
	n, err := normalize(e)
	if err != nil {
		return nil, err
	}
	return infer(n, nil)
}
