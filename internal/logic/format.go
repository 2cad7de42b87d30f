package logic

import (
	"strings"
)

// format renders e in NLTK notation: \x y.body, exists x.body, -p,
// (p & q) and f(a,b).
func format(e Expr) string {
	var b strings.Builder
	write(&b, e)
	return b.String()
}

func write(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case Variable:
		b.WriteString(x.Name)

	case Lambda:
		b.WriteString(`\`)
		b.WriteString(x.Var.Name)
		body := x.Body
		for {
			inner, ok := body.(Lambda)
			if !ok {
				break
			}
			b.WriteString(" ")
			b.WriteString(inner.Var.Name)
			body = inner.Body
		}
		b.WriteString(".")
		write(b, body)

	case Quantified:
		b.WriteString(x.Quant.String())
		b.WriteString(" ")
		b.WriteString(x.Var.Name)
		body := x.Body
		for {
			inner, ok := body.(Quantified)
			if !ok || inner.Quant != x.Quant {
				break
			}
			b.WriteString(" ")
			b.WriteString(inner.Var.Name)
			body = inner.Body
		}
		b.WriteString(".")
		write(b, body)

	case Negation:
		b.WriteString("-")
		write(b, x.Body)

	case Binary:
		b.WriteString("(")
		if opensScope(x.Left) {
			b.WriteString("(")
			write(b, x.Left)
			b.WriteString(")")
		} else {
			write(b, x.Left)
		}
		b.WriteString(" ")
		b.WriteString(x.Op.String())
		b.WriteString(" ")
		write(b, x.Right)
		b.WriteString(")")

	case Application:
		head, args := uncurry(x)
		if _, ok := head.(Variable); ok {
			write(b, head)
		} else {
			b.WriteString("(")
			write(b, head)
			b.WriteString(")")
		}
		b.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(",")
			}
			write(b, arg)
		}
		b.WriteString(")")
	}
}

// opensScope reports whether e prints as a binder whose body would
// swallow an operator written after it.
func opensScope(e Expr) bool {
	switch x := e.(type) {
	case Lambda, Quantified:
		return true
	case Negation:
		return opensScope(x.Body)
	}
	return false
}

// uncurry splits f(a)(b) into f and [a b].
func uncurry(a Application) (Expr, []Expr) {
	var args []Expr
	var e Expr = a
	for {
		app, ok := e.(Application)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		e = app.Fn
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return e, args
}
