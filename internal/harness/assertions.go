package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/montesniere/internal/logic"
	"github.com/roach88/montesniere/internal/pipeline"
)

// AssertionError is a failed expectation.
type AssertionError struct {
	Sentence string
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s mismatch\n", e.Sentence, e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkExpectation compares an outcome with its expectation and returns
// every mismatch.
func checkExpectation(name string, exp Expectation, out *pipeline.Outcome, parser *logic.Parser) []error {
	var errs []error
	mismatch := func(field, expected, actual string) {
		errs = append(errs, &AssertionError{Sentence: name, Field: field, Expected: expected, Actual: actual})
	}

	wantStatus := exp.Status
	if wantStatus == "" {
		wantStatus = pipeline.StatusComposed
	}
	if out.Status != wantStatus {
		actual := string(out.Status)
		if out.Err != nil {
			actual += " (" + out.Err.Error() + ")"
		}
		mismatch("status", string(wantStatus), actual)
		return errs
	}

	if exp.Term != "" {
		want, err := parser.Parse(exp.Term, nil)
		switch {
		case err != nil:
			mismatch("term", exp.Term, "unparsable expectation: "+err.Error())
		case !logic.Equivalent(want, out.Term):
			mismatch("term", want.String(), out.Term.String())
		}
	}
	if exp.Type != "" && out.Term.Type().String() != exp.Type {
		mismatch("type", exp.Type, out.Term.Type().String())
	}
	if exp.Warnings != nil && len(out.Warnings) != *exp.Warnings {
		mismatch("warnings", fmt.Sprint(*exp.Warnings), fmt.Sprint(len(out.Warnings)))
	}
	return errs
}
