// Package condition evaluates node predicates of the rule language.
//
// A condition compares one attribute of a dependency node with a fixed set
// of strings:
//
//	lemma element {ein}
//	rel element^{NK} {SB}
//	! deps superset {DA}
//
// The optional ^{...} set lists relation labels across which a failing
// test climbs to the node's head and tries again. Attribute "deps" is read
// as the set of relation labels of the node's dependents; all other
// attributes are single strings.
package condition
