package logic

import (
	"fmt"
	"sort"

	"github.com/roach88/montesniere/internal/term"
)

// Parser implements term.Parser for the logic language.
//
// Parser holds no state, so one value can be shared by the assigner and
// the merger.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

var _ term.Parser = (*Parser)(nil)

// Parse reads template and types it against signature.
//
// Signature values are type strings (e, t, ?, <a,b>). A malformed type is
// reported as a *term.TypeError so that callers see a single failure kind
// for bad signatures; a malformed template is a *SyntaxError.
func (p *Parser) Parse(template string, signature map[string]string) (term.Term, error) {
	sig, err := parseSignature(signature)
	if err != nil {
		return nil, err
	}
	e, err := parseExpr(template)
	if err != nil {
		return nil, err
	}
	return infer(e, sig)
}

// MustParse is like Parse but panics on error. Intended for tests.
func (p *Parser) MustParse(template string, signature map[string]string) Expr {
	t, err := p.Parse(template, signature)
	if err != nil {
		panic(err)
	}
	return t.(Expr)
}

func parseSignature(signature map[string]string) (map[string]Type, error) {
	if len(signature) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(signature))
	for name := range signature {
		names = append(names, name)
	}
	sort.Strings(names)

	sig := make(map[string]Type, len(signature))
	for _, name := range names {
		t, err := ParseType(signature[name])
		if err != nil {
			return nil, &term.TypeError{
				Expr:    name,
				Message: fmt.Sprintf("bad signature entry: %v", err),
			}
		}
		sig[name] = t
	}
	return sig, nil
}
