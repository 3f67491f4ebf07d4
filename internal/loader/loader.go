// Package loader reads a normalized scheduler export into an immutable
// Snapshot.
//
// Parsing the vendor's raw export format into this normalized YAML shape is
// an upstream concern; the loader only validates and decodes the normalized
// form. Validation runs in two layers: the embedded CUE schema rejects
// structurally broken documents (wrong types, missing identity fields) as a
// fatal LoadError, then per-record checks exclude jobs with dangling folder
// references or duplicate identities as warnings while loading continues.
package loader

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/schedlens/schedlens/internal/graph"
	"github.com/schedlens/schedlens/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// Error codes, unified across loader failures.
const (
	ErrCodeNotFound     = "L001" // export file not found or unreadable
	ErrCodeInvalidYAML  = "L002" // document is not valid YAML
	ErrCodeSchema       = "L003" // document violates the export schema
	ErrCodeDecodeFailed = "L004" // YAML decode into record types failed
)

// LoadError is a fatal loading failure. Per-record issues never produce a
// LoadError; they become model.Warning entries instead.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// exportDoc mirrors the top level of the normalized export.
type exportDoc struct {
	Folders []model.Folder `yaml:"folders"`
	Jobs    []model.Job    `yaml:"jobs"`
}

// Load reads, validates, and decodes an export file.
//
// Returns the snapshot, the per-record warnings (malformed folder references,
// duplicate identities), and a fatal error when the document itself is
// unusable. Warnings never prevent a snapshot from being returned.
func Load(path string) (*model.Snapshot, []model.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading export: %v", err)}
	}
	return Parse(path, data)
}

// Parse validates and decodes export bytes. The filename is used only for
// error positions.
func Parse(filename string, data []byte) (*model.Snapshot, []model.Warning, error) {
	if err := validateSchema(filename, data); err != nil {
		return nil, nil, err
	}

	var doc exportDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decoding export: %v", err)}
	}

	return buildSnapshot(doc)
}

// validateSchema checks the document against the embedded CUE schema.
func validateSchema(filename string, data []byte) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// Embedded schema is part of the binary; failing to compile it is a
		// programming error, not an input error.
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("internal: compiling schema: %v", err)}
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &LoadError{Code: ErrCodeInvalidYAML, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}

	doc := cctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &LoadError{Code: ErrCodeInvalidYAML, Message: fmt.Sprintf("building document: %v", err)}
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError converts a CUE validation error into a positioned LoadError.
func schemaError(err error) *LoadError {
	le := &LoadError{Code: ErrCodeSchema, Message: cueerrors.Details(err, nil)}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
			le.Pos = positions[0]
		}
	}
	return le
}

// buildSnapshot applies per-record checks and assembles the snapshot.
//
// MalformedRecord policy: a job referencing a folder absent from the export's
// folder list is excluded with a warning. Duplicate (folder, name) identities
// keep the first record and warn on the rest. Loading always continues.
func buildSnapshot(doc exportDoc) (*model.Snapshot, []model.Warning, error) {
	folders := make(map[string]bool, len(doc.Folders))
	for i := range doc.Folders {
		folders[doc.Folders[i].Name] = true
	}

	var (
		warnings []model.Warning
		jobs     = make([]model.Job, 0, len(doc.Jobs))
		seen     = make(map[string]bool, len(doc.Jobs))
	)
	for i := range doc.Jobs {
		job := doc.Jobs[i]
		if !folders[job.FolderName] {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnMalformedRecord,
				Message: fmt.Sprintf("job %q references unknown folder %q; record excluded", job.Name, job.FolderName),
			})
			continue
		}
		key := job.Key()
		if seen[key] {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnDuplicateJob,
				Message: fmt.Sprintf("duplicate job identity %q; record excluded", key),
			})
			continue
		}
		seen[key] = true
		normalizeConditions(&job)
		jobs = append(jobs, job)
	}

	return model.NewSnapshot(jobs, doc.Folders, len(doc.Jobs)), warnings, nil
}

// normalizeConditions canonicalizes condition names at the boundary so every
// downstream match works on the same form.
func normalizeConditions(job *model.Job) {
	for i := range job.InConditions {
		job.InConditions[i].Name = graph.NormalizeName(job.InConditions[i].Name)
	}
	for i := range job.OutConditions {
		job.OutConditions[i].Name = graph.NormalizeName(job.OutConditions[i].Name)
	}
}
