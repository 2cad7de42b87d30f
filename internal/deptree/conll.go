package deptree

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ReadCoNLL reads dependency trees in CoNLL format. Sentences are
// separated by blank lines; lines starting with # are comments.
//
// Accepted layouts, columns separated by tabs or runs of blanks:
//
//	10 columns  ID FORM LEMMA CPOSTAG POSTAG FEATS HEAD DEPREL PHEAD PDEPREL
//	4 columns   FORM POSTAG HEAD DEPREL
//	3 columns   FORM POSTAG HEAD
//
// In the short layouts the address is the line position in the sentence
// and lemma and coarse tag default to form and tag. A lemma of "_" is
// replaced by the form. All text is normalized to NFC.
func ReadCoNLL(r io.Reader) ([]*Tree, error) {
	var (
		trees []*Tree
		nodes []Node
		start int
	)
	flush := func() error {
		if len(nodes) == 0 {
			return nil
		}
		t, err := New(nodes)
		if err != nil {
			return fmt.Errorf("sentence starting at line %d: %w", start, err)
		}
		trees = append(trees, t)
		nodes = nil
		return nil
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(norm.NFC.String(sc.Text()))
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if len(nodes) == 0 {
			start = lineNo
		}
		n, err := parseLine(line, len(nodes)+1)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Message: err.Error()}
		}
		nodes = append(nodes, n)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read conll: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return trees, nil
}

// ParseCoNLL reads a single sentence.
func ParseCoNLL(src string) (*Tree, error) {
	trees, err := ReadCoNLL(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, fmt.Errorf("expected one sentence, found %d", len(trees))
	}
	return trees[0], nil
}

func parseLine(line string, position int) (Node, error) {
	cells := strings.Fields(line)
	var n Node
	var head string
	switch len(cells) {
	case 10:
		addr, err := strconv.Atoi(cells[0])
		if err != nil {
			return Node{}, fmt.Errorf("bad address %q", cells[0])
		}
		n = Node{
			Address: addr,
			Word:    cells[1],
			Lemma:   cells[2],
			CTag:    cells[3],
			Tag:     cells[4],
			Feats:   cells[5],
			Rel:     cells[7],
		}
		head = cells[6]
	case 4, 3:
		n = Node{
			Address: position,
			Word:    cells[0],
			Lemma:   cells[0],
			CTag:    cells[1],
			Tag:     cells[1],
		}
		head = cells[2]
		if len(cells) == 4 {
			n.Rel = cells[3]
		}
	default:
		return Node{}, fmt.Errorf("expected 3, 4 or 10 columns, found %d", len(cells))
	}
	h, err := strconv.Atoi(head)
	if err != nil {
		return Node{}, fmt.Errorf("bad head %q", head)
	}
	n.Head = h
	if n.Lemma == "_" {
		n.Lemma = n.Word
	}
	return n, nil
}
