package logic

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLambda
	tokExists
	tokAll
	tokNot
	tokAnd
	tokOr
	tokImplies
	tokIff
	tokEquals
	tokNotEquals
	tokDot
	tokComma
	tokLParen
	tokRParen
)

var tokenNames = [...]string{
	tokEOF:       "end of input",
	tokIdent:     "identifier",
	tokLambda:    `"\"`,
	tokExists:    `"exists"`,
	tokAll:       `"all"`,
	tokNot:       `"-"`,
	tokAnd:       `"&"`,
	tokOr:        `"|"`,
	tokImplies:   `"->"`,
	tokIff:       `"<->"`,
	tokEquals:    `"="`,
	tokNotEquals: `"!="`,
	tokDot:       `"."`,
	tokComma:     `","`,
	tokLParen:    `"("`,
	tokRParen:    `")"`,
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  int
}

// keywords are identifiers with a reserved meaning.
var keywords = map[string]tokenKind{
	"lambda":  tokLambda,
	"exists":  tokExists,
	"exist":   tokExists,
	"some":    tokExists,
	"all":     tokAll,
	"forall":  tokAll,
	"not":     tokNot,
	"and":     tokAnd,
	"or":      tokOr,
	"implies": tokImplies,
	"iff":     tokIff,
}

// symbols maps single-rune symbols, including the usual logic notation.
var symbols = map[rune]tokenKind{
	'\\': tokLambda,
	'∃':  tokExists,
	'∀':  tokAll,
	'¬':  tokNot,
	'&':  tokAnd,
	'∧':  tokAnd,
	'|':  tokOr,
	'∨':  tokOr,
	'→':  tokImplies,
	'↔':  tokIff,
	'.':  tokDot,
	',':  tokComma,
	'(':  tokLParen,
	')':  tokRParen,
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lex splits src into tokens. The final token is always tokEOF.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == 'λ':
			// λ is a letter; it never starts an identifier.
			toks = append(toks, token{kind: tokLambda, text: "λ", pos: i})
			i += size
		case isIdentRune(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if !isIdentRune(r) {
					break
				}
				i += size
			}
			text := src[start:i]
			kind, ok := keywords[text]
			if !ok {
				kind = tokIdent
			}
			toks = append(toks, token{kind: kind, text: text, pos: start})
		case hasPrefix(src, i, "<->"):
			toks = append(toks, token{kind: tokIff, text: "<->", pos: i})
			i += 3
		case hasPrefix(src, i, "->"):
			toks = append(toks, token{kind: tokImplies, text: "->", pos: i})
			i += 2
		case hasPrefix(src, i, "=>"):
			toks = append(toks, token{kind: tokImplies, text: "=>", pos: i})
			i += 2
		case hasPrefix(src, i, "!="):
			toks = append(toks, token{kind: tokNotEquals, text: "!=", pos: i})
			i += 2
		case hasPrefix(src, i, "=="):
			toks = append(toks, token{kind: tokEquals, text: "==", pos: i})
			i += 2
		case r == '=':
			toks = append(toks, token{kind: tokEquals, text: "=", pos: i})
			i++
		case r == '-' || r == '!':
			toks = append(toks, token{kind: tokNot, text: string(r), pos: i})
			i++
		default:
			kind, ok := symbols[r]
			if !ok {
				return nil, &SyntaxError{Src: src, Pos: i, Message: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, token{kind: kind, text: string(r), pos: i})
			i += size
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func hasPrefix(s string, i int, prefix string) bool {
	return len(s)-i >= len(prefix) && s[i:i+len(prefix)] == prefix
}
