// Package harness runs sentence suites against a rule table.
//
// # Suite Format
//
// Suites are YAML files:
//
//	name: heuristic
//	description: "Heuristic German rules on the demo sentences"
//	rules: ../rules/heuristic_rules.json
//	ascii: false
//	strict: false
//	sentences:
//	  - name: beissende_taube
//	    conll: ../conll/beissende_taube.conll
//	    expect:
//	      term: 'exists x.(Taube(x) & beißen(x,Peter))'
//	      type: t
//	  - name: ohne_verb
//	    conll: ../conll/ohne_verb.conll
//	    expect:
//	      status: no_merge
//
// Paths are relative to the suite file.
//
// # Expectations
//
//   - status: the pipeline status, "composed" when omitted
//   - term: the sentence term, compared up to renaming of bound variables
//   - type: the type of the sentence term
//   - warnings: the exact number of weak-match warnings
//
// Results can be compared against golden files with RunWithGolden.
package harness
