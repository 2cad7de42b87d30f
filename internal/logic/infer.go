package logic

import (
	"fmt"

	"github.com/roach88/montesniere/internal/term"
)

// inferer resolves the types of an expression by unification.
//
// Rules:
//   - individual variables (x, y1) are e
//   - names listed in the signature get the signature type, bound or free
//   - operands of connectives, negation and quantifier bodies are t
//   - f(a) forces f : <type(a), r>
//   - types already stored on variables are kept as constraints
//
// After solving, free constants that are still unconstrained default to e.
// Anything else left open becomes Any.
type inferer struct {
	next  int
	subst map[typeVar]Type
	sig   map[string]Type
	free  map[string]Type
}

type scope struct {
	name string
	t    Type
	up   *scope
}

func (s *scope) lookup(name string) (Type, bool) {
	for ; s != nil; s = s.up {
		if s.name == name {
			return s.t, true
		}
	}
	return nil, false
}

// infer returns a copy of e whose variables carry resolved types.
func infer(e Expr, sig map[string]Type) (Expr, error) {
	in := &inferer{
		subst: make(map[typeVar]Type),
		sig:   sig,
		free:  make(map[string]Type),
	}
	annotated, _, err := in.annotate(e, nil)
	if err != nil {
		return nil, err
	}
	for name, t := range in.free {
		if !isConstant(name) {
			continue
		}
		if v, ok := in.walk(t).(typeVar); ok {
			in.subst[v] = Entity
		}
	}
	return in.finalize(annotated), nil
}

func (in *inferer) fresh() Type {
	in.next++
	return typeVar(in.next)
}

// instantiate replaces every Any in t by a fresh type variable.
func (in *inferer) instantiate(t Type) Type {
	switch x := t.(type) {
	case nil, anyType:
		return in.fresh()
	case ComplexType:
		return Func(in.instantiate(x.First), in.instantiate(x.Second))
	default:
		return t
	}
}

// initial is the starting type of a name before its occurrences are seen.
func (in *inferer) initial(name string) Type {
	if t, ok := in.sig[name]; ok {
		return in.instantiate(t)
	}
	if isIndividualVar(name) {
		return Entity
	}
	return in.fresh()
}

func (in *inferer) annotate(e Expr, env *scope) (Expr, Type, error) {
	switch x := e.(type) {
	case Variable:
		t, bound := env.lookup(x.Name)
		if !bound {
			t, bound = in.free[x.Name]
			if !bound {
				t = in.initial(x.Name)
				in.free[x.Name] = t
			}
		}
		if err := in.unify(in.instantiate(x.T), t, e); err != nil {
			return nil, nil, err
		}
		return Variable{Name: x.Name, T: t}, t, nil

	case Lambda:
		v, err := in.binder(x.Var, e)
		if err != nil {
			return nil, nil, err
		}
		body, bt, err := in.annotate(x.Body, &scope{name: v.Name, t: v.T, up: env})
		if err != nil {
			return nil, nil, err
		}
		return Lambda{Var: v, Body: body}, Func(v.T, bt), nil

	case Quantified:
		v, err := in.binder(x.Var, e)
		if err != nil {
			return nil, nil, err
		}
		body, bt, err := in.annotate(x.Body, &scope{name: v.Name, t: v.T, up: env})
		if err != nil {
			return nil, nil, err
		}
		if err := in.unify(bt, Truth, x.Body); err != nil {
			return nil, nil, err
		}
		return Quantified{Quant: x.Quant, Var: v, Body: body}, Truth, nil

	case Negation:
		body, bt, err := in.annotate(x.Body, env)
		if err != nil {
			return nil, nil, err
		}
		if err := in.unify(bt, Truth, x.Body); err != nil {
			return nil, nil, err
		}
		return Negation{Body: body}, Truth, nil

	case Binary:
		left, lt, err := in.annotate(x.Left, env)
		if err != nil {
			return nil, nil, err
		}
		right, rt, err := in.annotate(x.Right, env)
		if err != nil {
			return nil, nil, err
		}
		if x.Op == Equals || x.Op == NotEquals {
			if err := in.unify(lt, rt, e); err != nil {
				return nil, nil, err
			}
		} else {
			if err := in.unify(lt, Truth, x.Left); err != nil {
				return nil, nil, err
			}
			if err := in.unify(rt, Truth, x.Right); err != nil {
				return nil, nil, err
			}
		}
		return Binary{Op: x.Op, Left: left, Right: right}, Truth, nil

	case Application:
		fn, ft, err := in.annotate(x.Fn, env)
		if err != nil {
			return nil, nil, err
		}
		arg, at, err := in.annotate(x.Arg, env)
		if err != nil {
			return nil, nil, err
		}
		result := in.fresh()
		if err := in.unify(ft, Func(at, result), e); err != nil {
			return nil, nil, err
		}
		return Application{Fn: fn, Arg: arg}, result, nil

	default:
		return nil, nil, fmt.Errorf("logic: unknown expression %T", e)
	}
}

func (in *inferer) binder(v Variable, at Expr) (Variable, error) {
	t := in.initial(v.Name)
	if err := in.unify(in.instantiate(v.T), t, at); err != nil {
		return Variable{}, err
	}
	return Variable{Name: v.Name, T: t}, nil
}

func (in *inferer) walk(t Type) Type {
	for {
		v, ok := t.(typeVar)
		if !ok {
			return t
		}
		bound, ok := in.subst[v]
		if !ok {
			return t
		}
		t = bound
	}
}

func (in *inferer) occurs(v typeVar, t Type) bool {
	switch x := in.walk(t).(type) {
	case typeVar:
		return x == v
	case ComplexType:
		return in.occurs(v, x.First) || in.occurs(v, x.Second)
	default:
		return false
	}
}

func (in *inferer) unify(a, b Type, at Expr) error {
	a, b = in.walk(a), in.walk(b)
	if va, ok := a.(typeVar); ok {
		if vb, ok := b.(typeVar); ok && va == vb {
			return nil
		}
		if in.occurs(va, b) {
			return in.mismatch(a, b, at)
		}
		in.subst[va] = b
		return nil
	}
	if _, ok := b.(typeVar); ok {
		return in.unify(b, a, at)
	}
	switch x := a.(type) {
	case anyType:
		return nil
	case basicType:
		if _, ok := b.(anyType); ok || x.Equal(b) {
			return nil
		}
		return in.mismatch(a, b, at)
	case ComplexType:
		switch y := b.(type) {
		case anyType:
			return nil
		case ComplexType:
			if err := in.unify(x.First, y.First, at); err != nil {
				return err
			}
			return in.unify(x.Second, y.Second, at)
		}
	}
	return in.mismatch(a, b, at)
}

func (in *inferer) mismatch(a, b Type, at Expr) error {
	return &term.TypeError{
		Expr:    format(at),
		Message: fmt.Sprintf("cannot unify %s with %s", in.final(a), in.final(b)),
	}
}

// final resolves t through the substitution; open variables become Any.
func (in *inferer) final(t Type) Type {
	switch x := in.walk(t).(type) {
	case typeVar:
		return Any
	case ComplexType:
		return Func(in.final(x.First), in.final(x.Second))
	default:
		return x
	}
}

func (in *inferer) finalize(e Expr) Expr {
	switch x := e.(type) {
	case Variable:
		return Variable{Name: x.Name, T: in.final(x.T)}
	case Lambda:
		return Lambda{Var: Variable{Name: x.Var.Name, T: in.final(x.Var.T)}, Body: in.finalize(x.Body)}
	case Quantified:
		return Quantified{Quant: x.Quant, Var: Variable{Name: x.Var.Name, T: in.final(x.Var.T)}, Body: in.finalize(x.Body)}
	case Negation:
		return Negation{Body: in.finalize(x.Body)}
	case Binary:
		return Binary{Op: x.Op, Left: in.finalize(x.Left), Right: in.finalize(x.Right)}
	case Application:
		return Application{Fn: in.finalize(x.Fn), Arg: in.finalize(x.Arg)}
	default:
		return e
	}
}
