package deptree

import (
	"errors"
	"fmt"
)

// StructureError reports a malformed tree: bad addresses, dangling heads,
// cycles, or a missing or ambiguous sentence root.
type StructureError struct {
	Address int
	Message string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("malformed dependency tree at node %d: %s", e.Address, e.Message)
}

// IsStructureError returns true if err is or wraps a *StructureError.
func IsStructureError(err error) bool {
	var se *StructureError
	return errors.As(err, &se)
}

// ParseError reports a malformed line of CoNLL input.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("conll line %d: %s", e.Line, e.Message)
}
