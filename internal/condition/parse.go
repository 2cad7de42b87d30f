package condition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError reports a malformed condition string.
type SyntaxError struct {
	Input   string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Input == "" {
		return "invalid condition: " + e.Message
	}
	return fmt.Sprintf("invalid condition %q: %s", e.Input, e.Message)
}

// IsSyntaxError returns true if err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// conditionPattern is
//
//	[!] subject relation[^{ascent, ...}] {object, ...}
var conditionPattern = regexp.MustCompile(
	`^\s*(!\s*)?([^\s!^{}]+)\s+([A-Za-z_]+)(?:\^(\{[^{}]*\}))?\s+(\{[^{}]*\})\s*$`)

// Parse reads a condition from its textual form, for example
//
//	rel element^{NK} {SB, OA}
//	! deps superset {DA}
func Parse(s string) (*Condition, error) {
	m := conditionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, &SyntaxError{Input: s, Message: "expected [!] subject relation[^{...}] {...}"}
	}
	rel, ok := ParseRelation(m[3])
	if !ok {
		return nil, &SyntaxError{Input: s, Message: fmt.Sprintf("unknown relation %q", m[3])}
	}
	object, err := parseSet(m[5])
	if err != nil {
		return nil, &SyntaxError{Input: s, Message: err.Error()}
	}
	var transeunda []string
	if m[4] != "" {
		if transeunda, err = parseSet(m[4]); err != nil {
			return nil, &SyntaxError{Input: s, Message: err.Error()}
		}
		if len(transeunda) == 0 {
			return nil, &SyntaxError{Input: s, Message: "empty ascent set"}
		}
	}
	c, err := New(m[2], rel, object, transeunda, m[1] != "")
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Input = s
		}
		return nil, err
	}
	return c, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Condition {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// parseSet reads "{a, b, c}". "{}" is the empty set.
func parseSet(s string) ([]string, error) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty member in set %s", s)
		}
		out = append(out, p)
	}
	return out, nil
}
