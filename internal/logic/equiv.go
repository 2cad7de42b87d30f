package logic

import (
	"github.com/roach88/montesniere/internal/term"
)

// Equivalent reports whether a and b are the same term up to the renaming
// of bound variables. Terms of another implementation are never equivalent.
func Equivalent(a, b term.Term) bool {
	x, ok := a.(Expr)
	if !ok {
		return false
	}
	y, ok := b.(Expr)
	if !ok {
		return false
	}
	return alphaEqual(x, y, nil, nil)
}

// binding pairs bound names with their depth so that \x.x and \y.y compare
// equal while \x y.x and \x y.y do not.
type binding struct {
	name  string
	depth int
	up    *binding
}

func (b *binding) find(name string) (int, bool) {
	for ; b != nil; b = b.up {
		if b.name == name {
			return b.depth, true
		}
	}
	return 0, false
}

func (b *binding) push(name string) *binding {
	depth := 0
	if b != nil {
		depth = b.depth + 1
	}
	return &binding{name: name, depth: depth, up: b}
}

func alphaEqual(a, b Expr, ea, eb *binding) bool {
	switch x := a.(type) {
	case Variable:
		y, ok := b.(Variable)
		if !ok {
			return false
		}
		da, boundA := ea.find(x.Name)
		db, boundB := eb.find(y.Name)
		if boundA || boundB {
			return boundA && boundB && da == db
		}
		return x.Name == y.Name
	case Lambda:
		y, ok := b.(Lambda)
		return ok && alphaEqual(x.Body, y.Body, ea.push(x.Var.Name), eb.push(y.Var.Name))
	case Quantified:
		y, ok := b.(Quantified)
		return ok && x.Quant == y.Quant &&
			alphaEqual(x.Body, y.Body, ea.push(x.Var.Name), eb.push(y.Var.Name))
	case Negation:
		y, ok := b.(Negation)
		return ok && alphaEqual(x.Body, y.Body, ea, eb)
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op &&
			alphaEqual(x.Left, y.Left, ea, eb) && alphaEqual(x.Right, y.Right, ea, eb)
	case Application:
		y, ok := b.(Application)
		return ok && alphaEqual(x.Fn, y.Fn, ea, eb) && alphaEqual(x.Arg, y.Arg, ea, eb)
	default:
		return false
	}
}
