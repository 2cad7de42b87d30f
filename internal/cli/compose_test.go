package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_Text(t *testing.T) {
	out, _, err := execute(t, "compose", "--rules", heuristicRules,
		filepath.Join(conllDir, "beissende_taube.conll"))
	require.NoError(t, err)
	assert.Equal(t, "1: exists x.(Taube(x) & beißen(x,Peter)) : t\n", out)
}

func TestCompose_ASCII(t *testing.T) {
	out, _, err := execute(t, "compose", "--rules", heuristicRules, "--ascii",
		filepath.Join(conllDir, "heinrich_mueller.conll"))
	require.NoError(t, err)
	assert.Equal(t, "1: tanzen(Heinrich_Mueller) : t\n", out)
}

func TestCompose_MultipleSentencesJSON(t *testing.T) {
	path := joinCoNLL(t, "beissende_taube", "ohne_verb", "kein_mensch")

	out, _, err := execute(t, "--format", "json", "compose", "--rules", heuristicRules, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string        `json:"status"`
		Data   ComposeResult `json:"data"`
		Error  *CLIError     `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E301", resp.Error.Code)

	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Composed)
	require.Len(t, resp.Data.Sentences, 3)

	assert.Equal(t, "composed", resp.Data.Sentences[0].Status)
	assert.Equal(t, "t", resp.Data.Sentences[0].Type)

	assert.Equal(t, 2, resp.Data.Sentences[1].Sentence)
	assert.Equal(t, "no_merge", resp.Data.Sentences[1].Status)
	assert.Empty(t, resp.Data.Sentences[1].Term)
	assert.Contains(t, resp.Data.Sentences[1].Reason, "E301: no merge possible at node 2")

	assert.Equal(t, "-exists x.(Mensch(x) & zahlen(x))", resp.Data.Sentences[2].Term)
}

func TestCompose_NoMergeText(t *testing.T) {
	out, _, err := execute(t, "compose", "--rules", heuristicRules,
		filepath.Join(conllDir, "ohne_verb.conll"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "1: no_merge: E301: no merge possible at node 2: types [e, <<e,t>,t>]")
}

func TestCompose_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing rules file",
			args: []string{"compose", "--rules", "nonexistent.json", filepath.Join(conllDir, "beissende_taube.conll")},
			want: "E201",
		},
		{
			name: "invalid rules",
			args: []string{"compose", "--rules", invalidRules, filepath.Join(conllDir, "beissende_taube.conll")},
			want: "E204",
		},
		{
			name: "missing input",
			args: []string{"compose", "--rules", heuristicRules, "nonexistent.conll"},
			want: "E001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.want+"]")
		})
	}
}

func TestCompose_RulesRequired(t *testing.T) {
	_, _, err := execute(t, "compose", filepath.Join(conllDir, "beissende_taube.conll"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "rules" not set`)
}
