package classify

import (
	"sort"

	"github.com/schedlens/schedlens/internal/graph"
	"github.com/schedlens/schedlens/internal/model"
)

// ClassifyFolders derives the per-folder view from the edge set.
//
// A folder is self-contained when every edge touching any of its jobs is
// internal (folder-local); one external touching edge makes it complex. The
// two classes are mutually exclusive, and a folder with no touching edges is
// self-contained by vacuity.
//
// Results are sorted by folder name. Folders referenced by jobs but missing
// from the export's folder list were already excluded by the loader, so every
// job's folder is present here.
func ClassifyFolders(snap *model.Snapshot, g *graph.Graph) []model.FolderResult {
	type agg struct {
		jobs        int
		external    bool
		internalDep map[model.JobID]struct{}
		externalDep map[model.JobID]struct{}
	}
	byName := make(map[string]*agg, len(snap.Folders))
	for i := range snap.Folders {
		byName[snap.Folders[i].Name] = &agg{
			internalDep: make(map[model.JobID]struct{}),
			externalDep: make(map[model.JobID]struct{}),
		}
	}

	for i := range snap.Jobs {
		if a := byName[snap.Jobs[i].FolderName]; a != nil {
			a.jobs++
		}
	}

	touch := func(folder string, id model.JobID, internal bool) {
		a := byName[folder]
		if a == nil {
			return
		}
		if internal {
			a.internalDep[id] = struct{}{}
		} else {
			a.external = true
			a.externalDep[id] = struct{}{}
		}
	}
	for _, e := range g.Edges() {
		pf := snap.Job(e.Producer).FolderName
		cf := snap.Job(e.Consumer).FolderName
		touch(pf, e.Producer, e.Internal)
		touch(cf, e.Consumer, e.Internal)
	}

	results := make([]model.FolderResult, 0, len(snap.Folders))
	for i := range snap.Folders {
		f := &snap.Folders[i]
		a := byName[f.Name]
		class := model.FolderSelfContained
		if a.external {
			class = model.FolderComplex
		}
		results = append(results, model.FolderResult{
			Name:        f.Name,
			Datacenter:  f.Datacenter,
			Class:       class,
			JobCount:    a.jobs,
			InternalDep: len(a.internalDep),
			ExternalDep: len(a.externalDep),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}
