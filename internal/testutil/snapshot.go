// Package testutil provides fixture builders shared by the analyzer's tests.
package testutil

import "github.com/schedlens/schedlens/internal/model"

// SnapshotBuilder assembles small snapshots for tests without the loader.
//
// Jobs are added in call order, which fixes their JobIDs - tests rely on
// that to assert on specific ids. Folders referenced by jobs are created
// implicitly so fixtures stay short.
type SnapshotBuilder struct {
	jobs    []model.Job
	folders []model.Folder
	seen    map[string]bool
}

// NewSnapshot creates an empty builder.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{seen: make(map[string]bool)}
}

// Folder adds a folder with a datacenter. Safe to call for a folder already
// created implicitly by Job; the explicit record wins.
func (b *SnapshotBuilder) Folder(name, datacenter string) *SnapshotBuilder {
	if b.seen[name] {
		for i := range b.folders {
			if b.folders[i].Name == name {
				b.folders[i].Datacenter = datacenter
				return b
			}
		}
	}
	b.seen[name] = true
	b.folders = append(b.folders, model.Folder{Name: name, Datacenter: datacenter})
	return b
}

// Job adds a job with in/out condition names. Use JobFull for the rest of
// the record.
func (b *SnapshotBuilder) Job(folder, name string, in, out []string) *SnapshotBuilder {
	job := model.Job{Name: name, FolderName: folder}
	for _, c := range in {
		job.InConditions = append(job.InConditions, model.Condition{Name: c})
	}
	for _, c := range out {
		job.OutConditions = append(job.OutConditions, model.Condition{Name: c})
	}
	return b.JobFull(job)
}

// JobFull adds a fully specified job record.
func (b *SnapshotBuilder) JobFull(job model.Job) *SnapshotBuilder {
	if !b.seen[job.FolderName] {
		b.seen[job.FolderName] = true
		b.folders = append(b.folders, model.Folder{Name: job.FolderName})
	}
	b.jobs = append(b.jobs, job)
	return b
}

// Build finalizes the snapshot. RecordsSeen equals the job count; tests that
// exercise the attempted-vs-analyzed gap construct snapshots directly.
func (b *SnapshotBuilder) Build() *model.Snapshot {
	return model.NewSnapshot(b.jobs, b.folders, len(b.jobs))
}
