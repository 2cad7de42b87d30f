package merge

import (
	"errors"
	"fmt"
)

// DefaultMaxAttempts is the default number of applications the combiner
// may try for one node before giving up.
const DefaultMaxAttempts = 10000

// attemptBudget counts applications tried by one Combine call and
// enforces a maximum. Sibling sets of realistic sentences stay far below
// the default.
type attemptBudget struct {
	limit   int
	current int
}

func newAttemptBudget(limit int) *attemptBudget {
	return &attemptBudget{limit: limit}
}

// Check counts one attempt and fails once the limit is passed.
func (b *attemptBudget) Check() error {
	b.current++
	if b.current > b.limit {
		return &BudgetExceededError{Attempts: b.current, Limit: b.limit}
	}
	return nil
}

// Current returns the number of attempts counted so far.
func (b *attemptBudget) Current() int {
	return b.current
}

// BudgetExceededError is returned when a combiner runs out of attempts.
//
// It is not a composition failure: the search was cut short, so a
// composition may still exist.
type BudgetExceededError struct {
	Attempts int
	Limit    int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("%s: combiner exceeded max attempts (%d > %d)", ErrCodeBudget, e.Attempts, e.Limit)
}

// IsBudgetExceeded returns true if err is or wraps a *BudgetExceededError.
func IsBudgetExceeded(err error) bool {
	var be *BudgetExceededError
	return errors.As(err, &be)
}
