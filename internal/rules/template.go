package rules

import (
	"fmt"
	"strings"

	"github.com/roach88/montesniere/internal/deptree"
)

// segment is literal text or an attribute placeholder. Placeholders are
// written {[lemma]} or {lemma}; {{ and }} stand for literal braces.
type segment struct {
	literal string
	attr    string // empty for literal segments
}

type template struct {
	src      string
	segments []segment
}

func parseTemplate(src string) (*template, error) {
	t := &template{src: src}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '{' && i+1 < len(src) && src[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(src[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d in %q", i, src)
			}
			name := src[i+1 : i+end]
			if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
				name = name[1 : len(name)-1]
			}
			if !deptree.IsAttribute(name) || name == "deps" {
				return nil, fmt.Errorf("unknown placeholder {%s} in %q", src[i+1:i+end], src)
			}
			flush()
			t.segments = append(t.segments, segment{attr: name})
			i += end
		case c == '}':
			return nil, fmt.Errorf("single '}' at offset %d in %q", i, src)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// expand substitutes node attributes. lemma is the effective lemma, which
// may differ from the tree's after named-entity fusion.
func (t *template) expand(n deptree.Node, lemma string) string {
	var b strings.Builder
	for _, s := range t.segments {
		switch {
		case s.attr == "":
			b.WriteString(s.literal)
		case s.attr == "lemma":
			b.WriteString(lemma)
		default:
			v, _ := n.Attr(s.attr)
			b.WriteString(v.Scalar)
		}
	}
	return b.String()
}
