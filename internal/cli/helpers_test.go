package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	heuristicRules = "../../testdata/rules/heuristic_rules.json"
	invalidRules   = "../../testdata/rules/invalid_rules.json"
	heuristicSuite = "../../testdata/suites/heuristic.yaml"
	conllDir       = "../../testdata/conll"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// joinCoNLL writes the named fixtures into one multi-sentence file.
func joinCoNLL(t *testing.T, names ...string) string {
	t.Helper()
	var buf bytes.Buffer
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(conllDir, name+".conll"))
		require.NoError(t, err)
		buf.Write(bytes.TrimSpace(data))
		buf.WriteString("\n\n")
	}
	path := filepath.Join(t.TempDir(), "corpus.conll")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}
