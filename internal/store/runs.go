package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored pass of a suite over a rule table.
type Run struct {
	ID     string `json:"id"`
	Seq    int64  `json:"seq"` // assigned by WriteRun
	Suite  string `json:"suite"`
	Rules  string `json:"rules"`
	ASCII  bool   `json:"ascii"`
	Strict bool   `json:"strict"`
	Pass   bool   `json:"pass"`

	Sentences []SentenceRecord `json:"sentences,omitempty"`
}

// Failed returns the number of sentences that missed their expectation.
func (r *Run) Failed() int {
	n := 0
	for _, s := range r.Sentences {
		if !s.Pass() {
			n++
		}
	}
	return n
}

// SentenceRecord is the stored outcome of one sentence.
type SentenceRecord struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Term     string   `json:"term,omitempty"`
	Type     string   `json:"type,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Pass reports whether the sentence met its expectation.
func (s SentenceRecord) Pass() bool {
	return len(s.Errors) == 0
}

// WriteRun stores a run with its sentences and warnings in one
// transaction and returns the assigned sequence number.
//
// Idempotency: writing an ID that already exists changes nothing and
// returns the sequence number of the stored copy.
func (s *Store) WriteRun(ctx context.Context, run *Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty run ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, suite, rules, ascii, strict, pass)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Suite, run.Rules, run.ASCII, run.Strict, run.Pass)
	if err != nil {
		return 0, fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if inserted > 0 {
		for i, sent := range run.Sentences {
			if err := writeSentence(ctx, tx, run.ID, i, sent); err != nil {
				return 0, err
			}
		}
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("read seq of run %s: %w", run.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	run.Seq = seq
	return seq, nil
}

func writeSentence(ctx context.Context, tx *sql.Tx, runID string, idx int, sent SentenceRecord) error {
	errorsJSON, err := marshalStrings(sent.Errors)
	if err != nil {
		return fmt.Errorf("sentence %q: %w", sent.Name, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sentences (run_id, idx, name, status, term, type, reason, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, idx) DO NOTHING
	`, runID, idx, sent.Name, sent.Status, sent.Term, sent.Type, sent.Reason, errorsJSON)
	if err != nil {
		return fmt.Errorf("insert sentence %q: %w", sent.Name, err)
	}
	for w, msg := range sent.Warnings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO warnings (run_id, sentence_idx, idx, message)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_id, sentence_idx, idx) DO NOTHING
		`, runID, idx, w, msg)
		if err != nil {
			return fmt.Errorf("insert warning of sentence %q: %w", sent.Name, err)
		}
	}
	return nil
}

// ReadRuns returns all runs without their sentences, in insertion order.
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, suite, rules, ascii, strict, pass
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seq, &r.Suite, &r.Rules, &r.ASCII, &r.Strict, &r.Pass); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run with its sentences and warnings.
// Returns ErrRunNotFound if id is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, suite, rules, ascii, strict, pass
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Seq, &r.Suite, &r.Rules, &r.ASCII, &r.Strict, &r.Pass)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}

	sentences, err := s.readSentences(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Sentences = sentences
	return &r, nil
}

func (s *Store) readSentences(ctx context.Context, runID string) ([]SentenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, name, status, term, type, reason, errors
		FROM sentences
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sentences of run %s: %w", runID, err)
	}
	defer rows.Close()

	sentences := []SentenceRecord{}
	for rows.Next() {
		var (
			sent       SentenceRecord
			errorsJSON string
		)
		if err := rows.Scan(&sent.Index, &sent.Name, &sent.Status, &sent.Term, &sent.Type, &sent.Reason, &errorsJSON); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		if sent.Errors, err = unmarshalStrings(errorsJSON); err != nil {
			return nil, fmt.Errorf("sentence %q: %w", sent.Name, err)
		}
		sentences = append(sentences, sent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentences: %w", err)
	}
	rows.Close()

	warnings, err := s.readWarnings(ctx, runID)
	if err != nil {
		return nil, err
	}
	for i := range sentences {
		sentences[i].Warnings = warnings[sentences[i].Index]
	}
	return sentences, nil
}

// readWarnings groups the warnings of a run by sentence index.
func (s *Store) readWarnings(ctx context.Context, runID string) (map[int][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sentence_idx, message
		FROM warnings
		WHERE run_id = ?
		ORDER BY sentence_idx ASC, idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query warnings of run %s: %w", runID, err)
	}
	defer rows.Close()

	out := make(map[int][]string)
	for rows.Next() {
		var (
			idx int
			msg string
		)
		if err := rows.Scan(&idx, &msg); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		out[idx] = append(out[idx], msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warnings: %w", err)
	}
	return out, nil
}
