package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedlens/schedlens/internal/model"
)

const validExport = `
folders:
  - name: BILLING
    datacenter: DC-EAST
    order_method: SYSTEM
  - name: REPORTING
jobs:
  - name: DAILY_LOAD
    folder: BILLING
    application: FIN
    critical: true
    in_conditions:
      - name: FEED_READY
        odate: ODAT
        and_or: AND
    out_conditions:
      - name: LOAD_DONE
    control_resources:
      - name: DB_LOCK
        exclusive: true
    variables:
      - name: ENV
        value: prod
  - name: DAILY_REPORT
    folder: REPORTING
    in_conditions:
      - name: LOAD_DONE
`

// TestParse_ValidExport decodes records and builds lookup maps.
func TestParse_ValidExport(t *testing.T) {
	snap, warnings, err := Parse("export.yaml", []byte(validExport))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, snap.Jobs, 2)
	require.Len(t, snap.Folders, 2)
	assert.Equal(t, 2, snap.RecordsSeen)

	id, ok := snap.JobByKey("BILLING/DAILY_LOAD")
	require.True(t, ok)
	job := snap.Job(id)
	assert.True(t, job.Critical)
	assert.Equal(t, "FIN", job.Application)
	require.Len(t, job.InConditions, 1)
	assert.Equal(t, "FEED_READY", job.InConditions[0].Name)
	assert.Equal(t, "ODAT", job.InConditions[0].ODate)
	assert.Equal(t, model.OpAnd, job.InConditions[0].AndOr)
	require.Len(t, job.ControlResources, 1)
	assert.True(t, job.ControlResources[0].Exclusive)

	folder := snap.FolderByName("BILLING")
	require.NotNil(t, folder)
	assert.Equal(t, "DC-EAST", folder.Datacenter)
}

// TestParse_UnknownFolderExcluded: MalformedRecord policy - exclude, warn,
// continue.
func TestParse_UnknownFolderExcluded(t *testing.T) {
	doc := `
folders:
  - name: KNOWN
jobs:
  - name: GOOD
    folder: KNOWN
  - name: ORPHAN
    folder: MISSING
`
	snap, warnings, err := Parse("export.yaml", []byte(doc))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnMalformedRecord, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "ORPHAN")
	assert.Contains(t, warnings[0].Message, "MISSING")

	assert.Len(t, snap.Jobs, 1)
	assert.Equal(t, 2, snap.RecordsSeen, "attempted counts the excluded record")
}

// TestParse_DuplicateIdentityExcluded keeps the first record.
func TestParse_DuplicateIdentityExcluded(t *testing.T) {
	doc := `
folders:
  - name: F1
jobs:
  - name: JOB_A
    folder: F1
    application: first
  - name: JOB_A
    folder: F1
    application: second
`
	snap, warnings, err := Parse("export.yaml", []byte(doc))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnDuplicateJob, warnings[0].Code)

	require.Len(t, snap.Jobs, 1)
	assert.Equal(t, "first", snap.Jobs[0].Application, "first record wins")
}

// TestParse_SchemaViolation: a job without the folder identity field is a
// fatal LoadError, not a warning.
func TestParse_SchemaViolation(t *testing.T) {
	doc := `
folders:
  - name: F1
jobs:
  - name: NO_FOLDER
`
	_, _, err := Parse("export.yaml", []byte(doc))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeSchema, le.Code)
}

// TestParse_WrongType: critical must be a bool.
func TestParse_WrongType(t *testing.T) {
	doc := `
folders:
  - name: F1
jobs:
  - name: J
    folder: F1
    critical: "yes please"
`
	_, _, err := Parse("export.yaml", []byte(doc))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeSchema, le.Code)
}

// TestParse_InvalidYAML is a fatal parse error.
func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse("export.yaml", []byte("jobs: [unclosed"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeInvalidYAML, le.Code)
}

// TestParse_NormalizesConditionNames: names are NFC-normalized and trimmed
// at the boundary so graph matching never sees raw spellings.
func TestParse_NormalizesConditionNames(t *testing.T) {
	doc := "folders:\n  - name: F1\njobs:\n" +
		"  - name: P\n    folder: F1\n    out_conditions:\n      - name: \"COND-é\"\n" +
		"  - name: C\n    folder: F1\n    in_conditions:\n      - name: \"  COND-é \"\n"

	snap, _, err := Parse("export.yaml", []byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Jobs, 2)
	assert.Equal(t, snap.Jobs[0].OutConditions[0].Name, snap.Jobs[1].InConditions[0].Name)
}

// TestLoad_MissingFile returns the not-found code.
func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

// TestLoad_RoundTrip loads from disk.
func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validExport), 0o644))

	snap, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, snap.Jobs, 2)
}
