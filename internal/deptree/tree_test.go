package deptree

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taubeNodes() []Node {
	return []Node{
		{Address: 1, Word: "Eine", Lemma: "ein", CTag: "ART", Tag: "ART", Rel: "NK", Head: 2},
		{Address: 2, Word: "Taube", Lemma: "Taube", CTag: "NN", Tag: "NN", Rel: "SB", Head: 3},
		{Address: 3, Word: "beißt", Lemma: "beißen", CTag: "VVFIN", Tag: "VVFIN", Rel: "ROOT", Head: 0},
		{Address: 4, Word: "Peter", Lemma: "Peter", CTag: "NE", Tag: "NE", Rel: "OA", Head: 3},
	}
}

// TestNew_DerivesDeps tests that dependents are derived from heads.
func TestNew_DerivesDeps(t *testing.T) {
	tree, err := New(taubeNodes())
	require.NoError(t, err)

	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, tree.Addresses())

	verb, ok := tree.Node(3)
	require.True(t, ok)
	assert.Equal(t, map[string][]int{"SB": {2}, "OA": {4}}, verb.Deps)
	assert.Equal(t, []int{2, 4}, tree.Dependents(3))
	assert.Empty(t, tree.Dependents(4))
	assert.Nil(t, tree.Dependents(99))

	root, ok := tree.Node(0)
	require.True(t, ok)
	assert.Equal(t, RootRel, root.Rel)
	assert.Equal(t, []int{3}, tree.Dependents(0))
}

// TestNew_DeclaredDeps tests that declared deps must agree with heads.
func TestNew_DeclaredDeps(t *testing.T) {
	nodes := taubeNodes()
	nodes[2].Deps = map[string][]int{"OA": {4}, "SB": {2}}
	_, err := New(nodes)
	require.NoError(t, err)

	nodes[2].Deps = map[string][]int{"SB": {2}}
	_, err = New(nodes)
	require.Error(t, err)
	assert.True(t, IsStructureError(err))
}

// TestNew_Invalid tests structural validation.
func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		msg   string
	}{
		{"zero address", []Node{{Address: 0, Head: 0}}, "address must be positive"},
		{"duplicate", []Node{{Address: 1, Head: 0}, {Address: 1, Head: 0}}, "duplicate address"},
		{"dangling head", []Node{{Address: 1, Head: 7}}, "head 7 does not exist"},
		{"self loop", []Node{{Address: 1, Head: 1}}, "cycle"},
		{"cycle", []Node{{Address: 1, Head: 2}, {Address: 2, Head: 1}}, "cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.nodes)
			require.Error(t, err)
			assert.True(t, IsStructureError(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// TestRoot tests root resolution.
func TestRoot(t *testing.T) {
	t.Run("single root", func(t *testing.T) {
		tree, err := New(taubeNodes())
		require.NoError(t, err)
		root, err := tree.Root()
		require.NoError(t, err)
		assert.Equal(t, 3, root)
	})

	t.Run("no root", func(t *testing.T) {
		tree, err := New(nil)
		require.NoError(t, err)
		_, err = tree.Root()
		require.Error(t, err)
		assert.True(t, IsStructureError(err))
		assert.Contains(t, err.Error(), "no root")
	})

	t.Run("two roots", func(t *testing.T) {
		tree, err := New([]Node{
			{Address: 1, Rel: "ROOT", Head: 0},
			{Address: 2, Rel: "ROOT", Head: 0},
		})
		require.NoError(t, err)
		_, err = tree.Root()
		require.Error(t, err)
		assert.True(t, IsStructureError(err))
		assert.Contains(t, err.Error(), "more than one root")
	})
}

// TestNode_Attr tests attribute lookup by name.
func TestNode_Attr(t *testing.T) {
	tree, err := New(taubeNodes())
	require.NoError(t, err)
	verb, _ := tree.Node(3)

	tests := []struct {
		name string
		want Value
	}{
		{"address", Value{Scalar: "3"}},
		{"word", Value{Scalar: "beißt"}},
		{"lemma", Value{Scalar: "beißen"}},
		{"ctag", Value{Scalar: "VVFIN"}},
		{"tag", Value{Scalar: "VVFIN"}},
		{"feats", Value{Scalar: ""}},
		{"rel", Value{Scalar: "ROOT"}},
		{"head", Value{Scalar: "0"}},
		{"deps", Value{Keys: []string{"OA", "SB"}, IsKeys: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsAttribute(tt.name))
			got, ok := verb.Attr(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := verb.Attr("semrep")
	assert.False(t, ok)
	assert.False(t, IsAttribute("semrep"))
}

// TestAnnotations tests the side table.
func TestAnnotations(t *testing.T) {
	tree, err := New(taubeNodes())
	require.NoError(t, err)
	ann := NewAnnotations()

	assert.Equal(t, Annotation{}, ann.Get(2))
	assert.Equal(t, "Taube", ann.Lemma(tree, 2))

	ann.SetLemma(2, "Ringeltaube")
	assert.Equal(t, "Ringeltaube", ann.Lemma(tree, 2))

	node, _ := tree.Node(2)
	assert.Equal(t, "Taube", node.Lemma, "the tree is never modified")

	ann.SetMerged(2, nil)
	assert.True(t, ann.Get(2).Merged)
	assert.Nil(t, ann.Get(2).MergedTerm)
	assert.Equal(t, "Ringeltaube", ann.Get(2).Lemma)
}

// TestReadCoNLL tests the ten column layout with several sentences.
func TestReadCoNLL(t *testing.T) {
	src := strings.Join([]string{
		"# two sentences",
		"1\tEine\tein\tART\tART\t_\t2\tNK\t_\t_",
		"2\tTaube\tTaube\tNN\tNN\t_\t3\tSB\t_\t_",
		"3\tbeißt\tbeißen\tVVFIN\tVVFIN\t_\t0\tROOT\t_\t_",
		"4\tPeter\t_\tNE\tNE\t_\t3\tOA\t_\t_",
		"",
		"",
		"1\tJede\tjeder\tPIAT\tPIAT\t_\t2\tNK\t_\t_",
		"2\tTaube\tTaube\tNN\tNN\t_\t3\tSB\t_\t_",
		"3\tbadet\tbaden\tVVFIN\tVVFIN\t_\t0\tROOT\t_\t_",
	}, "\n")

	trees, err := ReadCoNLL(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, trees, 2)

	peter, ok := trees[0].Node(4)
	require.True(t, ok)
	assert.Equal(t, "Peter", peter.Lemma, "lemma _ falls back to the word")
	assert.Equal(t, "OA", peter.Rel)

	root, err := trees[1].Root()
	require.NoError(t, err)
	assert.Equal(t, 3, root)
}

// TestReadCoNLL_ShortLayouts tests the four and three column layouts.
func TestReadCoNLL_ShortLayouts(t *testing.T) {
	tree, err := ParseCoNLL("Peter NE 2 SB\nschläft VVFIN 0 ROOT\n")
	require.NoError(t, err)
	n, _ := tree.Node(1)
	assert.Equal(t, Node{Address: 1, Word: "Peter", Lemma: "Peter", CTag: "NE", Tag: "NE", Rel: "SB", Head: 2, Deps: map[string][]int{}}, n)

	tree, err = ParseCoNLL("Peter NE 2\nschläft VVFIN 0\n")
	require.NoError(t, err)
	n, _ = tree.Node(2)
	assert.Equal(t, "", n.Rel)
	assert.Equal(t, []int{1}, tree.Dependents(2))
}

// TestReadCoNLL_NFC tests that decomposed umlauts are composed.
func TestReadCoNLL_NFC(t *testing.T) {
	decomposed := "Mu\u0308ller"
	tree, err := ParseCoNLL("1\t" + decomposed + "\t" + decomposed + "\tNE\tNE\t_\t0\tROOT\t_\t_\n")
	require.NoError(t, err)
	n, _ := tree.Node(1)
	assert.Equal(t, "Müller", n.Lemma)
}

// TestReadCoNLL_Errors tests malformed input.
func TestReadCoNLL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"column count", "1 Peter NE\tNE 0\n"},
		{"bad head", "Peter NE x SB\n"},
		{"bad address", "x\tPeter\tPeter\tNE\tNE\t_\t0\tROOT\t_\t_\n"},
		{"dangling head", "Peter NE 5 SB\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCoNLL(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}

	_, err := ParseCoNLL("")
	assert.Error(t, err)
}

// TestReadCoNLL_Fixtures tests that every shared fixture is a valid tree
// with a single root.
func TestReadCoNLL_Fixtures(t *testing.T) {
	entries, err := os.ReadDir("../../testdata/conll")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			f, err := os.Open("../../testdata/conll/" + e.Name())
			require.NoError(t, err)
			defer f.Close()
			trees, err := ReadCoNLL(f)
			require.NoError(t, err)
			require.Len(t, trees, 1)
			_, err = trees[0].Root()
			assert.NoError(t, err)
		})
	}
}
