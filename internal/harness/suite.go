package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/montesniere/internal/pipeline"
)

// Suite is a list of sentences composed with one rule table.
type Suite struct {
	// Name uniquely identifies this suite.
	Name string `yaml:"name"`

	// Description explains what this suite checks.
	Description string `yaml:"description"`

	// Rules is the rule file (JSON, YAML or CUE).
	Rules string `yaml:"rules"`

	// ASCII and Strict configure the composer.
	ASCII  bool `yaml:"ascii,omitempty"`
	Strict bool `yaml:"strict,omitempty"`

	Sentences []Sentence `yaml:"sentences"`
}

// Sentence is one CoNLL file and what composing it should give.
type Sentence struct {
	Name   string      `yaml:"name"`
	CoNLL  string      `yaml:"conll"`
	Expect Expectation `yaml:"expect"`
}

// Expectation describes the expected outcome of a sentence. Empty fields
// are not checked.
type Expectation struct {
	Status   pipeline.Status `yaml:"status,omitempty"`
	Term     string          `yaml:"term,omitempty"`
	Type     string          `yaml:"type,omitempty"`
	Warnings *int            `yaml:"warnings,omitempty"`
}

// LoadSuite reads and parses a suite YAML file. Rule and CoNLL paths are
// resolved relative to the suite file. Unknown fields are rejected.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	suite.Rules = resolve(base, suite.Rules)
	for i := range suite.Sentences {
		suite.Sentences[i].CoNLL = resolve(base, suite.Sentences[i].CoNLL)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &suite, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Rules == "" {
		return fmt.Errorf("rules is required")
	}
	if len(s.Sentences) == 0 {
		return fmt.Errorf("sentences list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Sentences))
	for i, sent := range s.Sentences {
		if sent.Name == "" {
			return fmt.Errorf("sentence %d: name is required", i)
		}
		if seen[sent.Name] {
			return fmt.Errorf("sentence %d: duplicate name %q", i, sent.Name)
		}
		seen[sent.Name] = true
		if sent.CoNLL == "" {
			return fmt.Errorf("sentence %q: conll is required", sent.Name)
		}
		if err := validateExpectation(sent.Expect); err != nil {
			return fmt.Errorf("sentence %q: %w", sent.Name, err)
		}
	}
	return nil
}

func validateExpectation(e Expectation) error {
	switch e.Status {
	case "", pipeline.StatusComposed:
	case pipeline.StatusNoMerge, pipeline.StatusNoTerm, pipeline.StatusBudget:
		if e.Term != "" || e.Type != "" {
			return fmt.Errorf("status %q cannot expect a term", e.Status)
		}
	default:
		return fmt.Errorf("unknown status %q", e.Status)
	}
	if e.Warnings != nil && *e.Warnings < 0 {
		return fmt.Errorf("warnings must not be negative")
	}
	return nil
}
