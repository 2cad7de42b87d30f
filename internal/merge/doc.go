// Package merge composes the terms assigned to a dependency tree into one
// term for the sentence.
//
// Nodes are merged in post-order. A node's own term and the merged terms
// of its dependents are handed to a Combiner, which applies them to each
// other in every pair order and direction until all of them form a single
// term, backtracking out of orders that dead-end. Applications need the
// functor's domain to equal the argument's type; outside strict mode a
// domain that merely Matches is accepted and reported as a Warning.
//
// A proper noun with a single proper-noun component dependent
// (Heinrich -PNC-> Müller) is not combined. Its lemma becomes
// "Heinrich_Müller" and it gets a fresh name term instead.
package merge
