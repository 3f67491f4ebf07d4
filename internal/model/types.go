package model

// AndOr is the logical operator joining a job's in-conditions.
type AndOr string

const (
	OpAnd AndOr = "AND"
	OpOr  AndOr = "OR"
)

// Condition is a named signal a job requires (in) or produces (out).
// Many jobs may produce or consume the same name; linkage is by name match,
// never by identity.
type Condition struct {
	Name  string `json:"name" yaml:"name"`
	ODate string `json:"odate,omitempty" yaml:"odate,omitempty"` // order-date qualifier, e.g. "ODAT", "PREV"
	AndOr AndOr  `json:"and_or,omitempty" yaml:"and_or,omitempty"`
}

// Action is a single reaction inside an ON block (do-mail, do-shout, rerun...).
type Action struct {
	Type   string `json:"type" yaml:"type"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// OnCondition is an event handler attached to a job's outcome.
type OnCondition struct {
	Code    string   `json:"code" yaml:"code"` // completion-status pattern, e.g. "NOTOK", "COMPSTAT EQ 1"
	Actions []Action `json:"actions" yaml:"actions"`
}

// ControlResource is an exclusive or shared lock a job must hold to run.
type ControlResource struct {
	Name      string `json:"name" yaml:"name"`
	Exclusive bool   `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
}

// QuantitativeResource is a countable pool the job draws units from.
type QuantitativeResource struct {
	Name  string `json:"name" yaml:"name"`
	Units int    `json:"units,omitempty" yaml:"units,omitempty"`
}

// Variable is a job-level variable or AUTOEDIT assignment.
type Variable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Job is a read-only view of one scheduled job from the export.
//
// Identity is the (FolderName, Name) pair; the loader rejects duplicates.
// Derived analysis fields are NOT stored here - see JobResult.
type Job struct {
	Name       string `json:"name" yaml:"name"`
	FolderName string `json:"folder" yaml:"folder"`

	Application    string `json:"application,omitempty" yaml:"application,omitempty"`
	SubApplication string `json:"sub_application,omitempty" yaml:"sub_application,omitempty"`

	Critical bool `json:"critical,omitempty" yaml:"critical,omitempty"`
	Cyclic   bool `json:"cyclic,omitempty" yaml:"cyclic,omitempty"` // cyclic-execution flag on the job itself, unrelated to graph cycles

	// Scheduling features.
	Calendars          []string `json:"calendars,omitempty" yaml:"calendars,omitempty"`
	TimeWindow         bool     `json:"time_window,omitempty" yaml:"time_window,omitempty"`
	DayRestriction     bool     `json:"day_restriction,omitempty" yaml:"day_restriction,omitempty"`
	MonthRestriction   bool     `json:"month_restriction,omitempty" yaml:"month_restriction,omitempty"`
	WeekdayRestriction bool     `json:"weekday_restriction,omitempty" yaml:"weekday_restriction,omitempty"`
	Shift              bool     `json:"shift,omitempty" yaml:"shift,omitempty"`

	InConditions  []Condition `json:"in_conditions,omitempty" yaml:"in_conditions,omitempty"`
	OutConditions []Condition `json:"out_conditions,omitempty" yaml:"out_conditions,omitempty"`

	OnConditions          []OnCondition          `json:"on_conditions,omitempty" yaml:"on_conditions,omitempty"`
	ControlResources      []ControlResource      `json:"control_resources,omitempty" yaml:"control_resources,omitempty"`
	QuantitativeResources []QuantitativeResource `json:"quantitative_resources,omitempty" yaml:"quantitative_resources,omitempty"`
	Variables             []Variable             `json:"variables,omitempty" yaml:"variables,omitempty"`
	AutoEdits             []Variable             `json:"auto_edits,omitempty" yaml:"auto_edits,omitempty"`
}

// Key returns the unique "folder/name" identity of the job.
func (j *Job) Key() string {
	return j.FolderName + "/" + j.Name
}

// SchedulingFeatureCount counts the scheduling features the job uses.
// Each feature contributes at most 1 regardless of how many calendars or
// restrictions are attached.
func (j *Job) SchedulingFeatureCount() int {
	n := 0
	if len(j.Calendars) > 0 {
		n++
	}
	if j.TimeWindow {
		n++
	}
	if j.DayRestriction {
		n++
	}
	if j.MonthRestriction {
		n++
	}
	if j.WeekdayRestriction {
		n++
	}
	if j.Shift {
		n++
	}
	return n
}

// Folder is a named grouping of jobs, optionally scoped to a datacenter.
// Folders own no jobs directly; membership is each job's FolderName.
type Folder struct {
	Name        string `json:"name" yaml:"name"`
	Datacenter  string `json:"datacenter,omitempty" yaml:"datacenter,omitempty"`
	OrderMethod string `json:"order_method,omitempty" yaml:"order_method,omitempty"`
}

// JobID is a dense index into Snapshot.Jobs. All graph structures are keyed
// by JobID so adjacency can use slices instead of maps.
type JobID int

// Snapshot is the immutable record collection one analysis run operates on.
type Snapshot struct {
	Jobs    []Job
	Folders []Folder

	// RecordsSeen is the number of job records the loader encountered,
	// including ones it excluded as malformed. Reported as "attempted".
	RecordsSeen int

	byKey    map[string]JobID
	byFolder map[string]*Folder
}

// NewSnapshot builds a Snapshot with its lookup maps. Jobs and folders must
// already be deduplicated; the loader is responsible for that.
func NewSnapshot(jobs []Job, folders []Folder, recordsSeen int) *Snapshot {
	s := &Snapshot{
		Jobs:        jobs,
		Folders:     folders,
		RecordsSeen: recordsSeen,
		byKey:       make(map[string]JobID, len(jobs)),
		byFolder:    make(map[string]*Folder, len(folders)),
	}
	for i := range jobs {
		s.byKey[jobs[i].Key()] = JobID(i)
	}
	for i := range folders {
		s.byFolder[folders[i].Name] = &s.Folders[i]
	}
	return s
}

// JobByKey resolves a "folder/name" key to its JobID.
func (s *Snapshot) JobByKey(key string) (JobID, bool) {
	id, ok := s.byKey[key]
	return id, ok
}

// FolderByName resolves a folder name. Returns nil if unknown.
func (s *Snapshot) FolderByName(name string) *Folder {
	return s.byFolder[name]
}

// Job returns the job record for an id. The id must be valid.
func (s *Snapshot) Job(id JobID) *Job {
	return &s.Jobs[id]
}
