package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a temporary store for testing.
// Automatically cleaned up when test completes.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// sampleRun returns a run with one passing and one failing sentence.
func sampleRun(id string) *Run {
	return &Run{
		ID:    id,
		Suite: "heuristic",
		Rules: "testdata/rules/heuristic_rules.json",
		Pass:  false,
		Sentences: []SentenceRecord{
			{
				Name:   "beissende_taube",
				Status: "composed",
				Term:   "exists x.(Taube(x) & beißen(x,Peter))",
				Type:   "t",
			},
			{
				Name:     "ohne_verb",
				Status:   "no_merge",
				Reason:   "E301: no merge possible at node 2: types [e, <<e,t>,t>]",
				Warnings: []string{"node 2: applied a to b", "node 2: applied c to d"},
				Errors:   []string{"status mismatch: expected composed, got no_merge"},
			},
		},
	}
}
