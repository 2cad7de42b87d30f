package logic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/montesniere/internal/term"
)

// TestParse_Format tests that parsed terms print in canonical notation.
func TestParse_Format(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"lambda", `\x. Taube(x)`, `\x.Taube(x)`},
		{"curried lambdas merge", `\P Q. exists x.(P(x) & Q(x))`, `\P Q.exists x.(P(x) & Q(x))`},
		{"nested lambdas merge", `\y.\x.beißen(x,y)`, `\y x.beißen(x,y)`},
		{"binder without dot", `\P \Q.P(Q)`, `\P Q.P(Q)`},
		{"unicode binders without dot", `λP λQ. ∃x.(P(x) ∧ Q(x))`, `\P Q.exists x.(P(x) & Q(x))`},
		{"application uncurries", `R(a)(b)`, `R(a,b)`},
		{"quantifiers merge", `exists x.exists y.R(x,y)`, `exists x y.R(x,y)`},
		{"mixed quantifiers", `all x.exists y.R(x,y)`, `all x.exists y.R(x,y)`},
		{"negation", `-exists x.(Mensch(x) & zahlen(x))`, `-exists x.(Mensch(x) & zahlen(x))`},
		{"bang negation", `!P(a)`, `-P(a)`},
		{"keyword negation", `not P(a)`, `-P(a)`},
		{"and binds tighter than or", `P(x) & Q(x) | R(x)`, `((P(x) & Q(x)) | R(x))`},
		{"implication is right associative", `A -> B -> C`, `(A -> (B -> C))`},
		{"negation binds tight", `-P(x) & Q(x)`, `(-P(x) & Q(x))`},
		{"quantified left operand", `(exists x.P(x)) & Q(x)`, `((exists x.P(x)) & Q(x))`},
		{"negated quantifier left operand", `(-exists x.P(x)) | Q(x)`, `((-exists x.P(x)) | Q(x))`},
		{"lambda left operand", `(\x.P(x)) = R`, `((\x.P(x)) = R)`},
		{"quantified right operand", `Q(x) & exists x.P(x)`, `(Q(x) & exists x.P(x))`},
		{"equality", `a = b`, `(a = b)`},
		{"inequality", `a != b`, `(a != b)`},
		{"biconditional", `A <-> B`, `(A <-> B)`},
		{"unicode", `λx.∃y.(R(x,y) ∧ ¬S(y))`, `\x.exists y.(R(x,y) & -S(y))`},
		{"lambda head", `(\x.P(x))(a)`, `(\x.P(x))(a)`},
		{"umlaut identifiers", `Heinrich_Müller`, `Heinrich_Müller`},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.src, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

// TestParse_Types tests type inference.
func TestParse_Types(t *testing.T) {
	tests := []struct {
		name string
		src  string
		sig  map[string]string
		want string
	}{
		{"predicate from signature", `\x. Taube(x)`, map[string]string{"Taube": "<e,t>"}, "<e,t>"},
		{"determiner", `\P Q. exists x.(P(x) & Q(x))`, nil, "<<e,t>,<<e,t>,t>>"},
		{"determiner with signature", `\P Q. exists x.(P(x) & Q(x))`,
			map[string]string{"P": "<e,t>", "Q": "<e,t>"}, "<<e,t>,<<e,t>,t>>"},
		{"constant defaults to entity", `Peter`, nil, "e"},
		{"constant from signature", `Peter`, map[string]string{"Peter": "e"}, "e"},
		{"free function variable stays open", `P`, nil, "?"},
		{"unconstrained predicate result", `\y x. beißen(x,y)`, nil, "<e,<e,?>>"},
		{"transitive verb", `\y x. beißen(x,y)`, map[string]string{"beißen": "<e,<e,t>>"}, "<e,<e,t>>"},
		{"formula", `exists x.(Taube(x) & beißen(x,Peter))`, nil, "t"},
		{"negation marker", `\P x. -P(x)`, map[string]string{"P": "<e,t>"}, "<<e,t>,<e,t>>"},
		{"subject name", `\P. P(Heinrich_Müller)`,
			map[string]string{"P": "<e,t>", "Heinrich_Müller": "e"}, "<<e,t>,t>"},
		{"object determiner", `\P R x. exists y.(P(y) & R(y)(x))`,
			map[string]string{"P": "<e,t>", "R": "<e,<e,t>>"}, "<<e,t>,<<e,<e,t>>,<e,t>>>"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.src, tt.sig)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type().String())
		})
	}
}

// TestParse_TypeErrors tests templates whose types cannot be unified.
func TestParse_TypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		sig  map[string]string
	}{
		{"entity negated", `-Peter`, map[string]string{"Peter": "e"}},
		{"entity applied", `Peter(x)`, map[string]string{"Peter": "e"}},
		{"individual variable applied", `\x. x(x)`, nil},
		{"self application", `\F. F(F)`, nil},
		{"bad signature type", `Taube`, map[string]string{"Taube": "<e,"}},
		{"conflicting uses", `P(a) & P(a)(b)`, nil},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.src, tt.sig)
			require.Error(t, err)
			assert.True(t, term.IsTypeError(err), "expected type error, got %v", err)
		})
	}
}

// TestParse_SyntaxErrors tests malformed templates.
func TestParse_SyntaxErrors(t *testing.T) {
	for _, src := range []string{
		``,
		`\x. (Taube(x)`,
		`Taube(x`,
		`x $ y`,
		`\. P(x)`,
		`P(x) &`,
		`exists x`,
		`exists x.`,
		`\x y`,
		`P(x))`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := NewParser().Parse(src, nil)
			require.Error(t, err)
			var se *SyntaxError
			assert.True(t, errors.As(err, &se), "expected syntax error, got %v", err)
		})
	}
}

// TestFormat_RoundTrip tests that printing a term and parsing it back
// yields the same scoping.
func TestFormat_RoundTrip(t *testing.T) {
	p := NewParser()
	for _, src := range []string{
		`(exists x.P(x)) & Q(x)`,
		`(-all x.P(x)) -> Q(x)`,
		`((\x.P(x)) = R) | S`,
		`exists x.(P(x) & Q(x))`,
	} {
		t.Run(src, func(t *testing.T) {
			first := p.MustParse(src, nil)
			second, err := p.Parse(first.String(), nil)
			require.NoError(t, err)
			assert.True(t, Equivalent(first, second), "%s reparsed as %s", first, second)
			assert.Equal(t, first.String(), second.String())
		})
	}
}

// TestApplyTo_Simplify tests application followed by reduction.
func TestApplyTo_Simplify(t *testing.T) {
	p := NewParser()
	taube := p.MustParse(`\x. Taube(x)`, map[string]string{"Taube": "<e,t>"})
	peter := p.MustParse(`Peter`, nil)

	applied, err := taube.ApplyTo(peter)
	require.NoError(t, err)
	assert.Equal(t, `(\x.Taube(x))(Peter)`, applied.String())
	assert.Equal(t, "t", applied.Type().String())

	simple, err := applied.Simplify()
	require.NoError(t, err)
	assert.Equal(t, `Taube(Peter)`, simple.String())
	assert.Equal(t, "t", simple.Type().String())
}

// TestApplyTo_Determiner tests the determiner, noun and verb chain.
func TestApplyTo_Determiner(t *testing.T) {
	p := NewParser()
	det := p.MustParse(`\P Q. exists x.(P(x) & Q(x))`, map[string]string{"P": "<e,t>", "Q": "<e,t>"})
	noun := p.MustParse(`\x. Taube(x)`, map[string]string{"Taube": "<e,t>"})
	verb := p.MustParse(`\y x. beißen(x,y)`, map[string]string{"beißen": "<e,<e,t>>"})
	peter := p.MustParse(`Peter`, nil)

	np := apply(t, det, noun)
	assert.Equal(t, `\Q.exists x.(Taube(x) & Q(x))`, np.String())
	assert.Equal(t, "<<e,t>,t>", np.Type().String())

	vp := apply(t, verb, peter)
	assert.Equal(t, `\x.beißen(x,Peter)`, vp.String())

	s := apply(t, np, vp)
	assert.Equal(t, `exists x.(Taube(x) & beißen(x,Peter))`, s.String())
	assert.Equal(t, "t", s.Type().String())
}

// TestApplyTo_UnicodeTemplates tests the determiner chain written with
// λ, ∃ and ∧ and without a dot between stacked lambdas.
func TestApplyTo_UnicodeTemplates(t *testing.T) {
	p := NewParser()
	det := p.MustParse(`λP λQ. ∃x.(P(x) ∧ Q(x))`, map[string]string{"P": "<e,t>", "Q": "<e,t>"})
	noun := p.MustParse(`λx. dove(x)`, map[string]string{"dove": "<e,t>"})
	verb := p.MustParse(`λy λx. bite(x,y)`, map[string]string{"bite": "<e,<e,t>>"})
	peter := p.MustParse(`Peter`, nil)

	assert.Equal(t, "<<e,t>,<<e,t>,t>>", det.Type().String())
	assert.Equal(t, "<e,<e,t>>", verb.Type().String())

	s := apply(t, apply(t, det, noun), apply(t, verb, peter))
	assert.Equal(t, `exists x.(dove(x) & bite(x,Peter))`, s.String())
	assert.Equal(t, "t", s.Type().String())
}

// TestApplyTo_CaptureAvoidance tests renaming of binders during
// substitution.
func TestApplyTo_CaptureAvoidance(t *testing.T) {
	p := NewParser()
	fn := p.MustParse(`\P x. P(x)`, nil)
	arg := p.MustParse(`\y. R(x,y)`, nil)

	got := apply(t, fn, arg)
	assert.Equal(t, `\x1.R(x,x1)`, got.String())

	fn = p.MustParse(`\P Q. all P1.Q(P(P1))`, nil)
	arg = p.MustParse(`\y. P1`, nil)
	got = apply(t, fn, arg)
	assert.Equal(t, `\Q.all P2.Q(P1)`, got.String())
}

// TestApplyTo_TypeMismatch tests that ill-typed applications fail.
func TestApplyTo_TypeMismatch(t *testing.T) {
	p := NewParser()
	taube := p.MustParse(`\x. Taube(x)`, map[string]string{"Taube": "<e,t>"})
	hund := p.MustParse(`\y. Hund(y)`, map[string]string{"Hund": "<e,t>"})

	_, err := taube.ApplyTo(hund)
	require.Error(t, err)
	assert.True(t, term.IsTypeError(err))
}

// TestApplyTo_WeakDomain tests application of a term whose domain is open.
func TestApplyTo_WeakDomain(t *testing.T) {
	p := NewParser()
	fn := p.MustParse(`\P. P(Peter)`, nil)
	verb := p.MustParse(`\x. tanzen(x)`, map[string]string{"tanzen": "<e,t>"})

	d, ok := fn.Type().Domain()
	require.True(t, ok)
	assert.False(t, d.Equal(verb.Type()))
	assert.True(t, d.Matches(verb.Type()))

	got := apply(t, fn, verb)
	assert.Equal(t, `tanzen(Peter)`, got.String())
	assert.Equal(t, "t", got.Type().String())
}

// TestSimplify_Idempotent tests that normal forms are stable.
func TestSimplify_Idempotent(t *testing.T) {
	p := NewParser()
	e := p.MustParse(`exists x.(Taube(x) & beißen(x,Peter))`, nil)
	s, err := e.Simplify()
	require.NoError(t, err)
	assert.Equal(t, e.String(), s.String())
	assert.True(t, Equivalent(e, s))
}

// TestNormalize_Budget tests that a diverging term is cut off.
func TestNormalize_Budget(t *testing.T) {
	f := Variable{Name: "F", T: Any}
	self := Lambda{Var: f, Body: Application{Fn: f, Arg: f}}
	omega := Application{Fn: self, Arg: self}

	_, err := normalize(omega)
	require.Error(t, err)
	var re *ReductionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, MaxReductionSteps, re.Steps)
}

// TestEquivalent tests alpha-equivalence.
func TestEquivalent(t *testing.T) {
	p := NewParser()
	tests := []struct {
		a, b string
		want bool
	}{
		{`\x.Taube(x)`, `\y.Taube(y)`, true},
		{`exists x.(Taube(x) & beißen(x,Peter))`, `exists z.(Taube(z) & beißen(z,Peter))`, true},
		{`\x y.R(x,y)`, `\y x.R(y,x)`, true},
		{`\x y.R(x,y)`, `\x y.R(y,x)`, false},
		{`\x.Taube(x)`, `\x.Hund(x)`, false},
		{`exists x.P(x)`, `all x.P(x)`, false},
		{`\x.R(x,y)`, `\y.R(y,y)`, false},
		{`(A & B)`, `(A | B)`, false},
	}
	for _, tt := range tests {
		t.Run(tt.a+" ~ "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Equivalent(p.MustParse(tt.a, nil), p.MustParse(tt.b, nil)))
		})
	}
}

func apply(t *testing.T, fn, arg term.Term) term.Term {
	t.Helper()
	applied, err := fn.ApplyTo(arg)
	require.NoError(t, err)
	simple, err := applied.Simplify()
	require.NoError(t, err)
	return simple
}
