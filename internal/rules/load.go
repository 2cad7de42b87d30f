package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/montesniere/internal/condition"
)

//go:embed schema.cue
var ruleSchema string

// Error codes of rule loading.
const (
	ErrCodeNotFound  = "E201" // rule file missing or unreadable
	ErrCodeDecode    = "E202" // malformed JSON, YAML or CUE document
	ErrCodeSchema    = "E203" // document does not match the rule schema
	ErrCodeCondition = "E204" // malformed condition string
	ErrCodeTemplate  = "E205" // malformed template or signature
	ErrCodeFormat    = "E206" // unknown file extension
	ErrCodeEmpty     = "E207" // file declares no rules
)

// LoadMode controls how errors are handled while building a rule table.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadError represents an error that occurred while loading rules.
type LoadError struct {
	Code    string
	Rule    int // index of the offending rule, -1 if not rule specific
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Rule >= 0 {
		return fmt.Sprintf("%s: rule %d: %s", e.Code, e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError returns true if err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Format is a rule file syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &LoadError{Code: ErrCodeFormat, Rule: -1, Message: fmt.Sprintf("unknown rule file format: %s", path)}
	}
}

// record is one rule as written in a file.
type record struct {
	Conditions []string          `json:"conditions" yaml:"conditions"`
	SemRepPat  string            `json:"semRepPat" yaml:"semRepPat"`
	SemSig     map[string]string `json:"semSig" yaml:"semSig"`

	pos token.Pos
}

// LoadJSON reads a JSON array of rules.
func LoadJSON(data []byte) ([]*Rule, error) {
	return load(FormatJSON, "", data)
}

// LoadYAML reads a YAML sequence of rules.
func LoadYAML(data []byte) ([]*Rule, error) {
	return load(FormatYAML, "", data)
}

// LoadCUE reads a CUE file declaring a rules list. filename is used in
// error positions.
func LoadCUE(filename string, data []byte) ([]*Rule, error) {
	return load(FormatCUE, filename, data)
}

// LoadFile reads a rule file; the format follows the extension.
func LoadFile(path string) ([]*Rule, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Rule: -1, Message: err.Error()}
	}
	return load(format, path, data)
}

// Validate reads a rule file and reports every problem instead of the
// first one.
func Validate(path string) []error {
	format, err := FormatOf(path)
	if err != nil {
		return []error{err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []error{&LoadError{Code: ErrCodeNotFound, Rule: -1, Message: err.Error()}}
	}
	records, err := decode(format, path, data)
	if err != nil {
		return []error{err}
	}
	_, errs := build(records, LoadModeCollectAll)
	return errs
}

func load(format Format, name string, data []byte) ([]*Rule, error) {
	records, err := decode(format, name, data)
	if err != nil {
		return nil, err
	}
	rules, errs := build(records, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return rules, nil
}

func decode(format Format, name string, data []byte) ([]record, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatCUE:
		return decodeCUE(name, data)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Rule: -1, Message: fmt.Sprintf("unknown rule file format %q", format)}
	}
}

func decodeJSON(data []byte) ([]record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Rule: -1, Message: fmt.Sprintf("decoding JSON rules: %v", err)}
	}
	return records, nil
}

func decodeYAML(data []byte) ([]record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var records []record
	if err := dec.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeDecode, Rule: -1, Message: fmt.Sprintf("decoding YAML rules: %v", err)}
	}
	return records, nil
}

func decodeCUE(name string, data []byte) ([]record, error) {
	if name == "" {
		name = "rules.cue"
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(ruleSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling rule schema: %w", err)
	}

	src := ctx.CompileBytes(data, cue.Filename(name))
	if err := src.Err(); err != nil {
		return nil, cueLoadError(ErrCodeDecode, err)
	}
	v := schema.Unify(src)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}

	rulesPath := cue.ParsePath("rules")
	iter, err := v.LookupPath(rulesPath).List()
	if err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}
	// Positions are taken from the file alone so they never point into the
	// schema.
	var positions []token.Pos
	if srcIter, err := src.LookupPath(rulesPath).List(); err == nil {
		for srcIter.Next() {
			positions = append(positions, srcIter.Value().Pos())
		}
	}

	var records []record
	for i := 0; iter.Next(); i++ {
		var rec record
		if err := iter.Value().Decode(&rec); err != nil {
			return nil, cueLoadError(ErrCodeSchema, err)
		}
		if i < len(positions) {
			rec.pos = positions[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// cueLoadError extracts position info from CUE errors.
func cueLoadError(code string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Rule: -1, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Rule: -1, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// build turns decoded records into rules. In fail-fast mode it returns
// after the first error.
func build(records []record, mode LoadMode) ([]*Rule, []error) {
	if len(records) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeEmpty, Rule: -1, Message: "no rules declared"}}
	}
	var (
		rules []*Rule
		errs  []error
	)
	for i, rec := range records {
		r, err := NewRule(rec.Conditions, rec.SemRepPat, rec.SemSig)
		if err != nil {
			errs = append(errs, ruleLoadError(i, rec.pos, err))
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		rules = append(rules, r)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return rules, nil
}

func ruleLoadError(i int, pos token.Pos, err error) *LoadError {
	code := ErrCodeTemplate
	if condition.IsSyntaxError(err) {
		code = ErrCodeCondition
	}
	return &LoadError{Code: code, Rule: i, Message: err.Error(), Pos: pos}
}
