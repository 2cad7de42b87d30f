package harness

// Result is the outcome of running a suite.
type Result struct {
	// Suite is the name of the suite.
	Suite string `json:"suite"`

	// Pass is true if every sentence met its expectation.
	Pass bool `json:"pass"`

	// Sentences holds one entry per sentence, in suite order.
	Sentences []SentenceResult `json:"sentences"`
}

// SentenceResult is the outcome of one sentence.
type SentenceResult struct {
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Term     string   `json:"term,omitempty"`
	Type     string   `json:"type,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// Errors lists failed expectations. Empty if the sentence passed.
	Errors []string `json:"errors,omitempty"`
}

// Pass reports whether the sentence met its expectation.
func (s *SentenceResult) Pass() bool {
	return len(s.Errors) == 0
}

// NewResult creates a new passing result.
func NewResult(suite string) *Result {
	return &Result{
		Suite:     suite,
		Pass:      true,
		Sentences: []SentenceResult{},
	}
}

// Add appends a sentence result and updates Pass.
func (r *Result) Add(s SentenceResult) {
	r.Sentences = append(r.Sentences, s)
	if !s.Pass() {
		r.Pass = false
	}
}

// Failed returns the sentences that missed their expectation.
func (r *Result) Failed() []SentenceResult {
	var out []SentenceResult
	for _, s := range r.Sentences {
		if !s.Pass() {
			out = append(out, s)
		}
	}
	return out
}
