package logic

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-set/v3"
)

// MaxReductionSteps bounds the number of beta steps one normalization may
// take.
const MaxReductionSteps = 10000

// ReductionError is returned when a term does not reach normal form within
// MaxReductionSteps.
type ReductionError struct {
	Expr  string
	Steps int
}

func (e *ReductionError) Error() string {
	return fmt.Sprintf("term %s did not normalize within %d reduction steps", e.Expr, e.Steps)
}

// freeVars returns the names occurring free in e.
func freeVars(e Expr) *set.Set[string] {
	out := set.New[string](0)
	collectFree(e, nil, out)
	return out
}

func collectFree(e Expr, bound *scope, out *set.Set[string]) {
	switch x := e.(type) {
	case Variable:
		if _, ok := bound.lookup(x.Name); !ok {
			out.Insert(x.Name)
		}
	case Lambda:
		collectFree(x.Body, &scope{name: x.Var.Name, up: bound}, out)
	case Quantified:
		collectFree(x.Body, &scope{name: x.Var.Name, up: bound}, out)
	case Negation:
		collectFree(x.Body, bound, out)
	case Binary:
		collectFree(x.Left, bound, out)
		collectFree(x.Right, bound, out)
	case Application:
		collectFree(x.Fn, bound, out)
		collectFree(x.Arg, bound, out)
	}
}

// allNames returns every name in e, bound or free.
func allNames(e Expr, out *set.Set[string]) {
	switch x := e.(type) {
	case Variable:
		out.Insert(x.Name)
	case Lambda:
		out.Insert(x.Var.Name)
		allNames(x.Body, out)
	case Quantified:
		out.Insert(x.Var.Name)
		allNames(x.Body, out)
	case Negation:
		allNames(x.Body, out)
	case Binary:
		allNames(x.Left, out)
		allNames(x.Right, out)
	case Application:
		allNames(x.Fn, out)
		allNames(x.Arg, out)
	}
}

// freshName derives a name of the same kind as base that is not in taken:
// x becomes x1, x2, ...; P becomes P1, ...
func freshName(base string, taken *set.Set[string]) string {
	prefix := base
	switch {
	case isIndividualVar(base), isFunctionVar(base):
		prefix = base[:1]
	}
	for i := 1; ; i++ {
		name := prefix + strconv.Itoa(i)
		if !taken.Contains(name) {
			return name
		}
	}
}

// substitute replaces the free occurrences of name in e by val, renaming
// binders of e that would capture a free variable of val.
func substitute(e Expr, name string, val Expr, valFree *set.Set[string]) Expr {
	switch x := e.(type) {
	case Variable:
		if x.Name == name {
			return val
		}
		return x
	case Lambda:
		v, body, ok := substituteBinder(x.Var, x.Body, name, val, valFree)
		if !ok {
			return x
		}
		return Lambda{Var: v, Body: body}
	case Quantified:
		v, body, ok := substituteBinder(x.Var, x.Body, name, val, valFree)
		if !ok {
			return x
		}
		return Quantified{Quant: x.Quant, Var: v, Body: body}
	case Negation:
		return Negation{Body: substitute(x.Body, name, val, valFree)}
	case Binary:
		return Binary{
			Op:    x.Op,
			Left:  substitute(x.Left, name, val, valFree),
			Right: substitute(x.Right, name, val, valFree),
		}
	case Application:
		return Application{
			Fn:  substitute(x.Fn, name, val, valFree),
			Arg: substitute(x.Arg, name, val, valFree),
		}
	default:
		return e
	}
}

// substituteBinder handles the body of a binder. It reports false when the
// binder is left untouched.
func substituteBinder(v Variable, body Expr, name string, val Expr, valFree *set.Set[string]) (Variable, Expr, bool) {
	if v.Name == name {
		return v, body, false
	}
	if !freeVars(body).Contains(name) {
		return v, body, false
	}
	if valFree.Contains(v.Name) {
		taken := set.From(valFree.Slice())
		allNames(body, taken)
		taken.Insert(name)
		renamed := Variable{Name: freshName(v.Name, taken), T: v.T}
		body = substitute(body, v.Name, renamed, set.From([]string{renamed.Name}))
		v = renamed
	}
	return v, substitute(body, name, val, valFree), true
}

type reducer struct {
	steps int
}

// normalize beta-reduces e to normal form, leftmost redex first.
func normalize(e Expr) (Expr, error) {
	r := &reducer{}
	out, err := r.reduce(e)
	if err != nil {
		return nil, &ReductionError{Expr: format(e), Steps: MaxReductionSteps}
	}
	return out, nil
}

var errFuel = errors.New("out of reduction steps")

func (r *reducer) reduce(e Expr) (Expr, error) {
	switch x := e.(type) {
	case Application:
		fn, err := r.reduce(x.Fn)
		if err != nil {
			return nil, err
		}
		if l, ok := fn.(Lambda); ok {
			r.steps++
			if r.steps > MaxReductionSteps {
				return nil, errFuel
			}
			return r.reduce(substitute(l.Body, l.Var.Name, x.Arg, freeVars(x.Arg)))
		}
		arg, err := r.reduce(x.Arg)
		if err != nil {
			return nil, err
		}
		return Application{Fn: fn, Arg: arg}, nil
	case Lambda:
		body, err := r.reduce(x.Body)
		if err != nil {
			return nil, err
		}
		return Lambda{Var: x.Var, Body: body}, nil
	case Quantified:
		body, err := r.reduce(x.Body)
		if err != nil {
			return nil, err
		}
		return Quantified{Quant: x.Quant, Var: x.Var, Body: body}, nil
	case Negation:
		body, err := r.reduce(x.Body)
		if err != nil {
			return nil, err
		}
		return Negation{Body: body}, nil
	case Binary:
		left, err := r.reduce(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.reduce(x.Right)
		if err != nil {
			return nil, err
		}
		return Binary{Op: x.Op, Left: left, Right: right}, nil
	default:
		return e, nil
	}
}
