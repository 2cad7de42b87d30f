package merge

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/montesniere/internal/logic"
	"github.com/roach88/montesniere/internal/term"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parse(t *testing.T, src string, sig map[string]string) term.Term {
	t.Helper()
	tm, err := logic.NewParser().Parse(src, sig)
	require.NoError(t, err)
	return tm
}

// negationEntries are the terms under the verb of "Ein Hund beißt Peter
// nicht": composing them needs backtracking when the subject is tried
// before the negation.
func negationEntries(t *testing.T) []Entry {
	return []Entry{
		{Key: "3", Term: parse(t, `\y x. beißen(x,y)`, map[string]string{"beißen": "<e,<e,t>>"})},
		{Key: "2", Term: parse(t, `\Q. exists x.(Hund(x) & Q(x))`, map[string]string{"Hund": "<e,t>", "Q": "<e,t>"})},
		{Key: "4", Term: parse(t, `Peter`, map[string]string{"Peter": "e"})},
		{Key: "5", Term: parse(t, `\P x. -P(x)`, map[string]string{"P": "<e,t>"})},
	}
}

func permutations(entries []Entry) [][]Entry {
	if len(entries) <= 1 {
		return [][]Entry{append([]Entry(nil), entries...)}
	}
	var out [][]Entry
	for i := range entries {
		rest := make([]Entry, 0, len(entries)-1)
		rest = append(rest, entries[:i]...)
		rest = append(rest, entries[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Entry{entries[i]}, p...))
		}
	}
	return out
}

// TestCombine_Singleton tests that a single entry is returned unchanged.
func TestCombine_Singleton(t *testing.T) {
	for _, src := range []string{`Peter`, `\x. Taube(x)`, `exists x.P(x)`} {
		tm := parse(t, src, nil)
		got, err := NewCombiner(WithLogger(quietLogger())).Combine([]Entry{{Key: "k", Term: tm}})
		require.NoError(t, err)
		assert.Equal(t, tm, got)
	}
}

// TestCombine_Empty tests that combining nothing yields nothing.
func TestCombine_Empty(t *testing.T) {
	got, err := NewCombiner().Combine(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestCombine_Backtracking tests that every entry order finds the
// composition, including orders whose first application dead-ends.
func TestCombine_Backtracking(t *testing.T) {
	want := parse(t, `exists x.(Hund(x) & -beißen(x,Peter))`, nil)

	perms := permutations(negationEntries(t))
	require.Len(t, perms, 24)
	for _, entries := range perms {
		c := NewCombiner(WithLogger(quietLogger()))
		got, err := c.Combine(entries)
		require.NoError(t, err, "order %v", keys(entries))
		assert.True(t, logic.Equivalent(want, got), "order %v: got %s", keys(entries), got)
		assert.Equal(t, "t", got.Type().String())
		assert.Empty(t, c.Warnings())
	}
}

// TestCombine_Exhaustive tests every order of a three-place verb with its
// three noun phrases.
func TestCombine_Exhaustive(t *testing.T) {
	entries := []Entry{
		{Key: "3", Term: parse(t, `\z y x. schenken(x,y,z)`, map[string]string{"schenken": "<e,<e,<e,t>>>"})},
		{Key: "2", Term: parse(t, `\Q. exists x.(Hase(x) & Q(x))`, map[string]string{"Hase": "<e,t>", "Q": "<e,t>"})},
		{Key: "5", Term: parse(t, `\R x. exists y.(Igel(y) & R(y)(x))`,
			map[string]string{"Igel": "<e,t>", "R": "<e,<e,t>>"})},
		{Key: "7", Term: parse(t, `\T y x. exists z.(Blume(z) & T(z)(y)(x))`,
			map[string]string{"Blume": "<e,t>", "T": "<e,<e,<e,t>>>"})},
	}
	want := parse(t, `exists x.(Hase(x) & exists y.(Igel(y) & exists z.(Blume(z) & schenken(x,y,z))))`, nil)

	for _, perm := range permutations(entries) {
		got, err := NewCombiner(WithLogger(quietLogger())).Combine(perm)
		require.NoError(t, err, "order %v", keys(perm))
		assert.True(t, logic.Equivalent(want, got), "order %v: got %s", keys(perm), got)
	}
}

// TestCombine_NoMergePossible tests failure reporting.
func TestCombine_NoMergePossible(t *testing.T) {
	entries := []Entry{
		{Key: "2", Term: parse(t, `Maria`, nil)},
		{Key: "1", Term: parse(t, `\P. P(Peter)`, map[string]string{"P": "<e,t>"})},
	}
	got, err := NewCombiner(WithLogger(quietLogger())).Combine(entries)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsNoMergePossible(err))
	assert.False(t, IsBudgetExceeded(err))

	var ne *NoMergePossibleError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, -1, ne.Address)
	assert.Equal(t, []string{"2", "1"}, ne.Keys)
	assert.Equal(t, []string{"e", "<<e,t>,t>"}, ne.Types)
	assert.Equal(t, "E301: no merge possible: types [e, <<e,t>,t>]", err.Error())
}

// TestCombine_WeakMatch tests that an undetermined domain is applied with
// a warning, and refused in strict mode.
func TestCombine_WeakMatch(t *testing.T) {
	entries := func() []Entry {
		return []Entry{
			{Key: "3", Term: parse(t, `\x. tanzen(x)`, map[string]string{"tanzen": "<e,t>"})},
			{Key: "2", Term: parse(t, `\P. P(Peter)`, nil)},
		}
	}

	t.Run("lenient", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCombiner(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		got, err := c.Combine(entries())
		require.NoError(t, err)
		assert.Equal(t, "tanzen(Peter)", got.String())

		warnings := c.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, -1, warnings[0].Address)
		assert.Equal(t, `\P.P(Peter)`, warnings[0].Functor)
		assert.Equal(t, `\x.tanzen(x)`, warnings[0].Argument)
		assert.Equal(t, "<e,t>", warnings[0].ArgumentType)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "type is not definite")
	})

	t.Run("strict", func(t *testing.T) {
		c := NewCombiner(WithStrict(true), WithLogger(quietLogger()))
		_, err := c.Combine(entries())
		require.Error(t, err)
		assert.True(t, IsNoMergePossible(err))
		assert.Empty(t, c.Warnings())
	})
}

// TestCombine_Budget tests that the attempt budget stops the search.
func TestCombine_Budget(t *testing.T) {
	c := NewCombiner(WithMaxAttempts(1), WithLogger(quietLogger()))
	_, err := c.Combine(negationEntries(t))
	require.Error(t, err)
	assert.True(t, IsBudgetExceeded(err))
	assert.False(t, IsNoMergePossible(err))

	var be *BudgetExceededError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Limit)
	assert.Equal(t, 2, be.Attempts)
}

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
