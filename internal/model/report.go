package model

// Difficulty buckets a complexity score.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // score <= 30
	DifficultyMedium Difficulty = "medium" // 31..60
	DifficultyHard   Difficulty = "hard"   // score >= 61
)

// Topology is the per-job condition topology bucket. Jobs with both in- and
// out-conditions fall into TopologyNone and surface only through folder
// classification.
type Topology string

const (
	TopologyIsolated Topology = "isolated" // no in, no out
	TopologyLeaf     Topology = "leaf"     // >=1 in, no out
	TopologyRoot     Topology = "root"     // no in, >=1 out
	TopologyNone     Topology = "none"
)

// FolderClass classifies a folder by the edges touching its jobs.
type FolderClass string

const (
	// FolderSelfContained: every edge touching a job in the folder is internal.
	// Folders with no touching edges are self-contained vacuously.
	FolderSelfContained FolderClass = "self_contained"
	// FolderComplex: at least one touching edge crosses a folder boundary.
	FolderComplex FolderClass = "complex"
)

// JobResult is everything the analyzer derives for one job.
type JobResult struct {
	JobID  JobID  `json:"job_id"`
	Key    string `json:"key"` // "folder/name"
	Folder string `json:"folder"`
	Name   string `json:"name"`

	Score      int        `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
	Wave       int        `json:"wave"` // 1..5
	Topology   Topology   `json:"topology"`

	Depth        int  `json:"depth"`
	InCycle      bool `json:"in_cycle"`
	Predecessors int  `json:"predecessors"`
	Successors   int  `json:"successors"`

	// Unresolved lists in-condition names with no known producer, the
	// external/unknown-upstream markers. Sorted, deduplicated.
	Unresolved []string `json:"unresolved,omitempty"`
}

// FolderResult is the per-folder classification.
type FolderResult struct {
	Name        string      `json:"name"`
	Datacenter  string      `json:"datacenter,omitempty"`
	Class       FolderClass `json:"class"`
	JobCount    int         `json:"job_count"`
	InternalDep int         `json:"jobs_with_internal_dep"` // jobs touching >=1 internal edge
	ExternalDep int         `json:"jobs_with_external_dep"` // jobs touching >=1 external edge
}

// Cycle is one strongly connected component of size >1, or a self-loop,
// reported as an ordered job sequence.
type Cycle struct {
	JobIDs []JobID  `json:"job_ids"`
	Keys   []string `json:"keys"`
}

// WarningCode categorizes recoverable per-record issues.
type WarningCode string

const (
	WarnMalformedRecord WarningCode = "MALFORMED_RECORD"
	WarnDuplicateJob    WarningCode = "DUPLICATE_JOB"
)

// Warning is a recovered per-record issue. Warnings never abort an analysis.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Report is the complete output of one analysis run over one snapshot.
type Report struct {
	RunID  string `json:"run_id"`
	Source string `json:"source,omitempty"` // export path, when known

	// Attempted counts every job record seen by the loader; Analyzed counts
	// the records that survived into the snapshot. The difference is always
	// explained by Warnings.
	Attempted int `json:"attempted"`
	Analyzed  int `json:"analyzed"`

	Warnings []Warning      `json:"warnings,omitempty"`
	Jobs     []JobResult    `json:"jobs"`
	Folders  []FolderResult `json:"folders"`
	Cycles   []Cycle        `json:"cycles,omitempty"`
}

// WaveCounts tallies jobs per migration wave. Index 0 is unused; waves are 1..5.
func (r *Report) WaveCounts() [6]int {
	var counts [6]int
	for i := range r.Jobs {
		w := r.Jobs[i].Wave
		if w >= 1 && w <= 5 {
			counts[w]++
		}
	}
	return counts
}
