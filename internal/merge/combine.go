package merge

import (
	"fmt"

	"github.com/roach88/montesniere/internal/term"
)

// Entry is one term taking part in a combination. Keys identify entries in
// failures and logs; combined entries get the key "(functor,argument)".
type Entry struct {
	Key  string
	Term term.Term
}

// Warning records an application that went ahead on a weak type match:
// the functor's domain only Matches the argument type.
type Warning struct {
	Address      int // -1 when the combiner was called directly
	Functor      string
	Argument     string
	Domain       string
	ArgumentType string
}

func (w Warning) String() string {
	return fmt.Sprintf("node %d: applied %s to %s on weak match %s ~ %s",
		w.Address, w.Functor, w.Argument, w.Domain, w.ArgumentType)
}

// Combiner composes a set of terms into one by repeated function
// application, backtracking over pair orders and directions.
//
// Pairs are tried in entry order: (0,1), (0,2), ..., (1,2), ... and for
// each pair first the earlier entry as functor, then the later one. The
// first application that leads to a complete composition wins.
type Combiner struct {
	cfg      config
	warnings []Warning
}

// NewCombiner returns a Combiner.
func NewCombiner(opts ...Option) *Combiner {
	return &Combiner{cfg: newConfig(opts)}
}

// Combine composes entries into one term. It fails with a
// *NoMergePossibleError when no order of application uses every entry, or
// a *BudgetExceededError when the search is cut short. Combining no
// entries yields a nil term and no error.
func (c *Combiner) Combine(entries []Entry) (term.Term, error) {
	return c.combineAt(-1, entries)
}

// Warnings returns the weak-match warnings of all successful combinations
// so far.
func (c *Combiner) Warnings() []Warning {
	return append([]Warning(nil), c.warnings...)
}

func (c *Combiner) combineAt(addr int, entries []Entry) (term.Term, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	s := &search{
		Combiner: c,
		addr:     addr,
		budget:   newAttemptBudget(c.cfg.maxAttempts),
	}
	t, warnings, err := s.combine(entries)
	if err != nil {
		if ne, ok := err.(*NoMergePossibleError); ok {
			ne.Address = addr
		}
		c.cfg.logger.Debug("combination failed",
			"address", addr,
			"entries", len(entries),
			"attempts", s.budget.Current(),
			"error", err,
		)
		return nil, err
	}
	for _, w := range warnings {
		c.cfg.logger.Warn("type is not definite, application may be incorrect",
			"address", w.Address,
			"functor", w.Functor,
			"argument", w.Argument,
			"domain", w.Domain,
			"argument_type", w.ArgumentType,
		)
	}
	c.warnings = append(c.warnings, warnings...)
	return t, nil
}

// search is the state of one Combine call.
type search struct {
	*Combiner
	addr   int
	budget *attemptBudget
}

// combine returns the composition of entries together with the weak-match
// warnings of the branch that produced it. Warnings of abandoned branches
// are dropped.
func (s *search) combine(entries []Entry) (term.Term, []Warning, error) {
	if len(entries) == 1 {
		return entries[0].Term, nil, nil
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			for _, dir := range [2][2]int{{i, j}, {j, i}} {
				fn, arg := entries[dir[0]], entries[dir[1]]
				weak, ok := s.applicable(fn.Term, arg.Term)
				if !ok {
					continue
				}
				if err := s.budget.Check(); err != nil {
					return nil, nil, err
				}

				applied, err := apply(fn.Term, arg.Term)
				if err != nil {
					if term.IsTypeError(err) {
						s.cfg.logger.Debug("application rejected",
							"address", s.addr, "functor", fn.Key, "argument", arg.Key, "error", err)
						continue
					}
					return nil, nil, err
				}

				rest := make([]Entry, 0, len(entries)-1)
				for k, e := range entries {
					if k != i && k != j {
						rest = append(rest, e)
					}
				}
				rest = append(rest, Entry{Key: "(" + fn.Key + "," + arg.Key + ")", Term: applied})

				t, warnings, err := s.combine(rest)
				if err == nil {
					if weak {
						warnings = append([]Warning{s.warning(fn, arg)}, warnings...)
					}
					return t, warnings, nil
				}
				if !IsNoMergePossible(err) {
					return nil, nil, err
				}
				s.cfg.logger.Debug("backtracking",
					"address", s.addr, "functor", fn.Key, "argument", arg.Key)
			}
		}
	}
	return nil, nil, noMerge(entries)
}

// applicable reports whether fn can take arg, and whether only the weak
// Matches relation allows it.
func (s *search) applicable(fn, arg term.Term) (weak, ok bool) {
	dom, isFunc := fn.Type().Domain()
	if !isFunc {
		return false, false
	}
	switch {
	case dom.Equal(arg.Type()):
		return false, true
	case !s.cfg.strict && dom.Matches(arg.Type()):
		return true, true
	default:
		return false, false
	}
}

func (s *search) warning(fn, arg Entry) Warning {
	dom, _ := fn.Term.Type().Domain()
	return Warning{
		Address:      s.addr,
		Functor:      fn.Term.String(),
		Argument:     arg.Term.String(),
		Domain:       dom.String(),
		ArgumentType: arg.Term.Type().String(),
	}
}

func apply(fn, arg term.Term) (term.Term, error) {
	t, err := fn.ApplyTo(arg)
	if err != nil {
		return nil, err
	}
	return t.Simplify()
}
