// Package pipeline wires the rule assigner and the merger into a single
// call that turns a dependency tree into a sentence term.
//
// Compose never fails on a sentence that merely cannot be composed: the
// Outcome says why there is no term, so a caller comparing several
// sentences can treat that one as inconclusive.
package pipeline
