// Package logic is the reference term engine: a simply typed lambda
// calculus over first-order formulas, written in NLTK notation.
//
// SYNTAX:
//
//	\x y.body        abstraction (also "lambda", "λ")
//	exists x.body    existential (also "some", "∃")
//	all x.body       universal (also "forall", "∀")
//	-p  !p           negation (also "not", "¬")
//	p & q, p | q     conjunction, disjunction
//	p -> q, p <-> q  implication, biconditional
//	a = b, a != b    equality
//	f(a,b)           application, the same term as f(a)(b)
//
// TYPES:
//
// Types are e (entities), t (truth values), <a,b> (functions from a to b)
// and ? (undetermined). Parse infers types by unification:
//
//   - x, y, z1 and other single lower-case letters are individual
//     variables of type e
//   - names in the signature have the given type
//   - formulas under connectives and quantifiers are t
//   - free constants that stay unconstrained default to e
//   - everything else left open is ?
//
// An undetermined type Matches every type but Equals only itself. Callers
// that apply a term whose domain is ? rely on the weak match.
//
// REDUCTION:
//
// Simplify beta-reduces leftmost-outermost with capture-avoiding
// substitution. Renamed binders keep their kind: x becomes x1, P becomes
// P1. Normalization gives up after MaxReductionSteps steps.
//
// All expressions are immutable values.
package logic
