package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/schedlens/schedlens/internal/model"
)

// SaveReport persists a complete report in one transaction. Either the whole
// run lands or none of it does; a half-written run would be indistinguishable
// from a complete one when read back.
//
// Saving the same run ID twice replaces the previous rows (runs are
// content-identical for a given snapshot, so replacement is safe).
func (s *Store) SaveReport(ctx context.Context, r *model.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save report: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, attempted, analyzed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			attempted = excluded.attempted,
			analyzed = excluded.analyzed
	`, r.RunID, r.Source, r.Attempted, r.Analyzed); err != nil {
		return fmt.Errorf("save report: run row: %w", err)
	}

	// Replace attached rows wholesale.
	for _, table := range []string{"warnings", "job_results", "folder_results", "cycles"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE run_id = ?", table), r.RunID); err != nil {
			return fmt.Errorf("save report: clear %s: %w", table, err)
		}
	}

	for i, w := range r.Warnings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO warnings (run_id, seq, code, message) VALUES (?, ?, ?, ?)
		`, r.RunID, i, string(w.Code), w.Message); err != nil {
			return fmt.Errorf("save report: warning %d: %w", i, err)
		}
	}

	jobStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO job_results
		(run_id, job_id, key, folder, name, score, difficulty, wave, topology,
		 depth, in_cycle, predecessors, successors, unresolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save report: prepare job insert: %w", err)
	}
	defer jobStmt.Close()

	for i := range r.Jobs {
		jr := &r.Jobs[i]
		unresolved, err := json.Marshal(jr.Unresolved)
		if err != nil {
			return fmt.Errorf("save report: marshal unresolved for %s: %w", jr.Key, err)
		}
		if _, err := jobStmt.ExecContext(ctx,
			r.RunID, int(jr.JobID), jr.Key, jr.Folder, jr.Name,
			jr.Score, string(jr.Difficulty), jr.Wave, string(jr.Topology),
			jr.Depth, boolInt(jr.InCycle), jr.Predecessors, jr.Successors,
			string(unresolved),
		); err != nil {
			return fmt.Errorf("save report: job %s: %w", jr.Key, err)
		}
	}

	for i := range r.Folders {
		fr := &r.Folders[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO folder_results
			(run_id, name, datacenter, class, job_count, internal_dep, external_dep)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.RunID, fr.Name, fr.Datacenter, string(fr.Class), fr.JobCount, fr.InternalDep, fr.ExternalDep); err != nil {
			return fmt.Errorf("save report: folder %s: %w", fr.Name, err)
		}
	}

	for i := range r.Cycles {
		c := &r.Cycles[i]
		ids, err := json.Marshal(c.JobIDs)
		if err != nil {
			return fmt.Errorf("save report: marshal cycle %d ids: %w", i, err)
		}
		keys, err := json.Marshal(c.Keys)
		if err != nil {
			return fmt.Errorf("save report: marshal cycle %d keys: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cycles (run_id, cycle_index, job_ids, keys) VALUES (?, ?, ?, ?)
		`, r.RunID, i, string(ids), string(keys)); err != nil {
			return fmt.Errorf("save report: cycle %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save report: commit: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
