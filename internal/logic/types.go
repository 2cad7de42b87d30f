package logic

import (
	"fmt"
	"strings"

	"github.com/roach88/montesniere/internal/term"
)

// Type is a type of the simply typed term language.
//
// Concrete types are basicType (e, t), ComplexType (<a,b>) and anyType (?).
// typeVar only exists while inference runs and never escapes a typed term.
type Type interface {
	term.Type
	isType()
}

type basicType string

type anyType struct{}

// ComplexType is the functional type <First,Second>.
type ComplexType struct {
	First  Type
	Second Type
}

type typeVar int

var (
	// Entity is the type of individuals.
	Entity Type = basicType("e")
	// Truth is the type of formulas.
	Truth Type = basicType("t")
	// Any is the undetermined type. It matches every type.
	Any Type = anyType{}
)

// Func returns the functional type <a,b>.
func Func(a, b Type) Type {
	return ComplexType{First: a, Second: b}
}

func (basicType) isType()   {}
func (anyType) isType()     {}
func (ComplexType) isType() {}
func (typeVar) isType()     {}

func (b basicType) String() string   { return string(b) }
func (anyType) String() string       { return "?" }
func (c ComplexType) String() string { return "<" + c.First.String() + "," + c.Second.String() + ">" }
func (v typeVar) String() string     { return fmt.Sprintf("'%d", int(v)) }

func (b basicType) Equal(other term.Type) bool {
	o, ok := other.(basicType)
	return ok && o == b
}

func (anyType) Equal(other term.Type) bool {
	_, ok := other.(anyType)
	return ok
}

func (c ComplexType) Equal(other term.Type) bool {
	o, ok := other.(ComplexType)
	return ok && c.First.Equal(o.First) && c.Second.Equal(o.Second)
}

func (v typeVar) Equal(other term.Type) bool {
	o, ok := other.(typeVar)
	return ok && o == v
}

func (b basicType) Matches(other term.Type) bool {
	if _, ok := other.(anyType); ok {
		return true
	}
	return b.Equal(other)
}

func (anyType) Matches(term.Type) bool { return true }

func (c ComplexType) Matches(other term.Type) bool {
	switch o := other.(type) {
	case ComplexType:
		return c.First.Matches(o.First) && c.Second.Matches(o.Second)
	case anyType:
		return true
	default:
		return false
	}
}

func (typeVar) Matches(term.Type) bool { return true }

func (basicType) Domain() (term.Type, bool)     { return nil, false }
func (anyType) Domain() (term.Type, bool)       { return Any, true }
func (c ComplexType) Domain() (term.Type, bool) { return c.First, true }
func (typeVar) Domain() (term.Type, bool)       { return Any, true }

// ParseType reads a type in the notation e, t, ?, <a,b>.
func ParseType(s string) (Type, error) {
	p := &typeParser{src: strings.TrimSpace(s)}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("invalid type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) parse() (Type, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("invalid type %q: unexpected end", p.src)
	}
	switch c := p.src[p.pos]; c {
	case 'e':
		p.pos++
		return Entity, nil
	case 't':
		p.pos++
		return Truth, nil
	case '?':
		p.pos++
		return Any, nil
	case '<':
		p.pos++
		first, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		second, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return Func(first, second), nil
	default:
		return nil, fmt.Errorf("invalid type %q: unexpected %q at offset %d", p.src, c, p.pos)
	}
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("invalid type %q: expected %q at offset %d", p.src, c, p.pos)
	}
	p.pos++
	return nil
}
