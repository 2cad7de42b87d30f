// Package rules assigns candidate terms to dependency nodes.
//
// A rule table is an ordered list of rules. Each rule has a list of
// conditions (see package condition), a term template and a signature
// template:
//
//	{
//	  "conditions": ["tag element {NN}"],
//	  "semRepPat": "\\x. {[lemma]}(x)",
//	  "semSig": {"{[lemma]}": "<e,t>"}
//	}
//
// For every node the first rule whose conditions all hold is instantiated:
// placeholders such as {[lemma]} or {tag} are replaced by the node's
// attributes and the result is handed to a term.Parser. Nodes that match
// no rule get no term.
//
// Rule tables are read from JSON, YAML or CUE files. CUE files are checked
// against the schema in schema.cue.
package rules
