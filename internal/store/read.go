package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/schedlens/schedlens/internal/model"
)

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// RunInfo summarizes one persisted analysis run.
type RunInfo struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source,omitempty"`
	Attempted int    `json:"attempted"`
	Analyzed  int    `json:"analyzed"`
}

// ListRuns returns all persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, attempted, analyzed
		FROM runs ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Source, &r.Attempted, &r.Analyzed); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LatestRunID returns the most recent run's ID, or ErrRunNotFound when the
// store is empty.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// ReadReport reconstructs the full report for a run ID.
// Job results come back in job_id order, folders in name order, cycles in
// detection order - the same ordering the analyzer produced.
func (s *Store) ReadReport(ctx context.Context, runID string) (*model.Report, error) {
	r := &model.Report{RunID: runID}

	err := s.db.QueryRowContext(ctx, `
		SELECT source, attempted, analyzed FROM runs WHERE id = ?
	`, runID).Scan(&r.Source, &r.Attempted, &r.Analyzed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read report %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", runID, err)
	}

	if r.Warnings, err = s.readWarnings(ctx, runID); err != nil {
		return nil, err
	}
	if r.Jobs, err = s.readJobResults(ctx, runID); err != nil {
		return nil, err
	}
	if r.Folders, err = s.readFolderResults(ctx, runID); err != nil {
		return nil, err
	}
	if r.Cycles, err = s.readCycles(ctx, runID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) readWarnings(ctx context.Context, runID string) ([]model.Warning, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, message FROM warnings WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read warnings: %w", err)
	}
	defer rows.Close()

	var warnings []model.Warning
	for rows.Next() {
		var w model.Warning
		var code string
		if err := rows.Scan(&code, &w.Message); err != nil {
			return nil, fmt.Errorf("read warnings: scan: %w", err)
		}
		w.Code = model.WarningCode(code)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

func (s *Store) readJobResults(ctx context.Context, runID string) ([]model.JobResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, key, folder, name, score, difficulty, wave, topology,
		       depth, in_cycle, predecessors, successors, unresolved
		FROM job_results WHERE run_id = ? ORDER BY job_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read job results: %w", err)
	}
	defer rows.Close()

	var results []model.JobResult
	for rows.Next() {
		var (
			jr         model.JobResult
			jobID      int
			difficulty string
			topology   string
			inCycle    int
			unresolved string
		)
		if err := rows.Scan(&jobID, &jr.Key, &jr.Folder, &jr.Name, &jr.Score,
			&difficulty, &jr.Wave, &topology, &jr.Depth, &inCycle,
			&jr.Predecessors, &jr.Successors, &unresolved); err != nil {
			return nil, fmt.Errorf("read job results: scan: %w", err)
		}
		jr.JobID = model.JobID(jobID)
		jr.Difficulty = model.Difficulty(difficulty)
		jr.Topology = model.Topology(topology)
		jr.InCycle = inCycle != 0
		if err := json.Unmarshal([]byte(unresolved), &jr.Unresolved); err != nil {
			return nil, fmt.Errorf("read job results: unresolved for %s: %w", jr.Key, err)
		}
		results = append(results, jr)
	}
	return results, rows.Err()
}

func (s *Store) readFolderResults(ctx context.Context, runID string) ([]model.FolderResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, datacenter, class, job_count, internal_dep, external_dep
		FROM folder_results WHERE run_id = ? ORDER BY name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read folder results: %w", err)
	}
	defer rows.Close()

	var results []model.FolderResult
	for rows.Next() {
		var (
			fr    model.FolderResult
			class string
		)
		if err := rows.Scan(&fr.Name, &fr.Datacenter, &class, &fr.JobCount,
			&fr.InternalDep, &fr.ExternalDep); err != nil {
			return nil, fmt.Errorf("read folder results: scan: %w", err)
		}
		fr.Class = model.FolderClass(class)
		results = append(results, fr)
	}
	return results, rows.Err()
}

func (s *Store) readCycles(ctx context.Context, runID string) ([]model.Cycle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_ids, keys FROM cycles WHERE run_id = ? ORDER BY cycle_index
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read cycles: %w", err)
	}
	defer rows.Close()

	var cycles []model.Cycle
	for rows.Next() {
		var idsJSON, keysJSON string
		if err := rows.Scan(&idsJSON, &keysJSON); err != nil {
			return nil, fmt.Errorf("read cycles: scan: %w", err)
		}
		var c model.Cycle
		if err := json.Unmarshal([]byte(idsJSON), &c.JobIDs); err != nil {
			return nil, fmt.Errorf("read cycles: ids: %w", err)
		}
		if err := json.Unmarshal([]byte(keysJSON), &c.Keys); err != nil {
			return nil, fmt.Errorf("read cycles: keys: %w", err)
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}
