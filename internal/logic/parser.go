package logic

import (
	"fmt"
)

// SyntaxError reports a malformed term string.
type SyntaxError struct {
	Src     string
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at offset %d: %s", e.Src, e.Pos, e.Message)
}

// binding strength of the binary connectives; higher binds tighter.
var precedence = map[tokenKind]int{
	tokEquals:    4,
	tokNotEquals: 4,
	tokAnd:       3,
	tokOr:        2,
	tokImplies:   1,
	tokIff:       1,
}

var tokenOperators = map[tokenKind]Operator{
	tokEquals:    Equals,
	tokNotEquals: NotEquals,
	tokAnd:       And,
	tokOr:        Or,
	tokImplies:   Implies,
	tokIff:       Iff,
}

type parser struct {
	src  string
	toks []token
	pos  int
}

// parseExpr reads src into an untyped expression. Every variable carries
// type Any; infer resolves them.
func parseExpr(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	e, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.kind)
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, tok.kind)
	}
	return tok, nil
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Src: p.src, Pos: tok.pos, Message: fmt.Sprintf(format, args...)}
}

// binary parses connectives by precedence climbing. Implication is right
// associative, everything else left associative.
func (p *parser) binary(minPrec int) (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, ok := precedence[tok.kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.next()
		nextMin := prec + 1
		if tok.kind == tokImplies {
			nextMin = prec
		}
		right, err := p.binary(nextMin)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: tokenOperators[tok.kind], Left: left, Right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNot:
		p.next()
		body, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Negation{Body: body}, nil
	case tokLambda, tokExists, tokAll:
		p.next()
		vars, err := p.binders()
		if err != nil {
			return nil, err
		}
		body, err := p.binary(0)
		if err != nil {
			return nil, err
		}
		for i := len(vars) - 1; i >= 0; i-- {
			switch tok.kind {
			case tokLambda:
				body = Lambda{Var: vars[i], Body: body}
			case tokExists:
				body = Quantified{Quant: Exists, Var: vars[i], Body: body}
			default:
				body = Quantified{Quant: All, Var: vars[i], Body: body}
			}
		}
		return body, nil
	default:
		return p.application()
	}
}

// binders reads "x y z." after a lambda or quantifier. The dot is
// optional: the variables end at the first other token, so \P \Q.body
// reads as \P.\Q.body.
func (p *parser) binders() ([]Variable, error) {
	var vars []Variable
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokIdent:
			p.next()
			vars = append(vars, Variable{Name: tok.text, T: Any})
		case tok.kind == tokDot:
			p.next()
			if len(vars) == 0 {
				return nil, p.errorf(tok, "binder without variable")
			}
			return vars, nil
		case len(vars) > 0 && tok.kind != tokEOF:
			return vars, nil
		default:
			return nil, p.errorf(tok, "expected variable or \".\", found %s", tok.kind)
		}
	}
}

// application parses a primary followed by argument lists; f(a,b) is
// f(a)(b).
func (p *parser) application() (Expr, error) {
	fn, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokLParen {
		p.next()
		for {
			arg, err := p.binary(0)
			if err != nil {
				return nil, err
			}
			fn = Application{Fn: fn, Arg: arg}
			tok := p.next()
			if tok.kind == tokRParen {
				break
			}
			if tok.kind != tokComma {
				return nil, p.errorf(tok, "expected \",\" or \")\", found %s", tok.kind)
			}
		}
	}
	return fn, nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		return Variable{Name: tok.text, T: Any}, nil
	case tokLParen:
		e, err := p.binary(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf(tok, "unexpected %s", tok.kind)
	}
}
