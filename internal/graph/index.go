package graph

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/schedlens/schedlens/internal/model"
)

// Index is the condition-name lookup built from every in/out condition in a
// snapshot. It is built once, then shared read-only across workers; nothing
// mutates it after New returns.
//
// AMBIGUITY POLICY: a name with multiple producers keeps all of them. Every
// producer is treated as a valid upstream source, which may over-link but
// never drops a real dependency - the safe direction for migration planning.
// ODATE qualifiers are carried on edges but never used to disambiguate.
type Index struct {
	producers map[string][]model.JobID
	consumers map[string][]model.JobID
}

// NormalizeName canonicalizes a condition name for matching: NFC
// normalization plus surrounding-whitespace trim. Exports produced by hand
// or round-tripped through different encodings otherwise miss matches on
// byte-different but canonically-equal names.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NewIndex builds the producer and consumer maps in one pass over all jobs.
// Job id lists preserve snapshot order, keeping edge resolution deterministic.
func NewIndex(snap *model.Snapshot) *Index {
	idx := &Index{
		producers: make(map[string][]model.JobID),
		consumers: make(map[string][]model.JobID),
	}
	for i := range snap.Jobs {
		id := model.JobID(i)
		job := &snap.Jobs[i]
		for _, c := range job.OutConditions {
			name := NormalizeName(c.Name)
			if name == "" {
				continue
			}
			idx.producers[name] = append(idx.producers[name], id)
		}
		for _, c := range job.InConditions {
			name := NormalizeName(c.Name)
			if name == "" {
				continue
			}
			idx.consumers[name] = append(idx.consumers[name], id)
		}
	}
	return idx
}

// Producers returns the jobs producing the (normalized) condition name, in
// snapshot order. The returned slice is shared; callers must not mutate it.
func (idx *Index) Producers(name string) []model.JobID {
	return idx.producers[name]
}

// Consumers returns the jobs consuming the (normalized) condition name.
func (idx *Index) Consumers(name string) []model.JobID {
	return idx.consumers[name]
}

// ConditionCount returns the number of distinct condition names seen in
// either direction.
func (idx *Index) ConditionCount() int {
	n := len(idx.producers)
	for name := range idx.consumers {
		if _, ok := idx.producers[name]; !ok {
			n++
		}
	}
	return n
}
