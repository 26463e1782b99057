package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/littel/internal/registry"
)

func TestSliceCommand_JSON(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "slice", "--data", dir, "--feature", "F", "--date", "300", "-o", "json")
	require.NoError(t, err, out)

	var labels []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &labels))
	require.Len(t, labels, 1)
	assert.Equal(t, "B", labels[0]["language_id"])
	assert.Equal(t, "Beta", labels[0]["name"])
	assert.Equal(t, 0.5, labels[0]["value"])
	assert.Equal(t, true, labels[0]["inherited"])
	assert.Equal(t, 11.0, labels[0]["latitude"])
}

func TestSliceCommand_Table(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "slice", "--data", dir, "--feature", "F", "--date", "100")
	require.NoError(t, err, out)
	assert.Contains(t, out, "100 CE")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta")
}

func TestSliceCommand_Subset(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "slice", "--data", dir, "--feature", "F", "--date", "300", "--subset", "1", "-o", "json")
	require.NoError(t, err, out)
	assert.JSONEq(t, "[]", out)
}

func TestSliceCommand_UnknownFeature(t *testing.T) {
	dir := writeFixture(t)

	_, err := runCLI(t, "slice", "--data", dir, "--feature", "nope", "--date", "300")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `feature "nope" has no observations`)
}

func TestSweepCommand_WritesMatrix(t *testing.T) {
	dir := writeFixture(t)
	matrix := filepath.Join(t.TempDir(), "out", "matrix.csv")

	out, err := runCLI(t, "sweep", "--data", dir, "--feature", "F",
		"--from", "100", "--to", "300", "--step", "200", "--matrix", matrix, "-o", "json")
	require.NoError(t, err, out)

	var rows []sweepRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 100, rows[0].Date)
	assert.Equal(t, 300, rows[1].Date)
	assert.Equal(t, 1, rows[1].Inherited)

	data, err := os.ReadFile(matrix)
	require.NoError(t, err)
	assert.Equal(t, "Language_ID,100,300\nA,0.5,\nB,,0.5\n", string(data))
}

func TestSweepCommand_EmptyRange(t *testing.T) {
	dir := writeFixture(t)

	_, err := runCLI(t, "sweep", "--data", dir, "--feature", "F", "--from", "300", "--to", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dates")
}

func TestChangelogCommand_Pooled(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "changelog", "--data", dir, "--feature", "F", "-o", "yaml")
	require.NoError(t, err, out)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "F", got["feature"])
	assert.Equal(t, 1, got["changes"])
	assert.Equal(t, 0.76923, got["rate"])
	assert.EqualValues(t, 1, got["symmetry"])
	assert.NotContains(t, got, "language")
}

func TestChangelogCommand_LanguageByName(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "changelog", "--data", dir, "--feature", "F", "--language", "alpha", "--entries", "-o", "json")
	require.NoError(t, err, out)

	var got changelogReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "A", got.Language)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 400, got.Entries[0].Date)
	assert.Equal(t, 1.0, got.Entries[0].Increment)
}

func TestChangelogCommand_DirectionFilter(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "changelog", "--data", dir, "--feature", "F", "--direction", "decrease", "-o", "json")
	require.NoError(t, err, out)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0.0, got["changes"])
	assert.Nil(t, got["symmetry"], "no changes leaves symmetry undefined")
}

func TestChangelogCommand_Table(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "changelog", "--data", dir, "--feature", "F", "--language", "B")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Scope:")
	assert.Contains(t, out, "B")
	assert.Contains(t, out, "NA", "B has no changes of its own")
}

func TestCorrelationsCommand(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "correlations", "--data", dir, "--feature", "F", "-o", "json")
	require.NoError(t, err, out)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "F", got[0]["feature"])
	assert.Equal(t, 0.0, got[0]["distance"])
	assert.Equal(t, "G", got[1]["feature"])
	assert.Equal(t, 300.0, got[1]["distance"])
}

func TestCorrelationsCommand_BadDirection(t *testing.T) {
	dir := writeFixture(t)

	_, err := runCLI(t, "correlations", "--data", dir, "--feature", "F", "--direction", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown direction")
}

func TestLineageCommand(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "lineage", "B", "--data", dir, "--date", "210", "-o", "json")
	require.NoError(t, err, out)

	var steps []lineageStep
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 2)
	assert.Equal(t, "B", steps[0].ID)
	assert.Equal(t, 250, steps[0].RangeFrom)
	assert.Equal(t, "attested", steps[0].Attested)
	assert.Equal(t, "A", steps[1].ID)
	assert.Equal(t, 2, steps[1].Changes)
}

func TestLineageCommand_UnknownLanguage(t *testing.T) {
	dir := writeFixture(t)

	_, err := runCLI(t, "lineage", "zzz", "--data", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrUnknownLanguage)
}

func TestDescribeCommand(t *testing.T) {
	dir := writeFixture(t)

	out, err := runCLI(t, "describe", "--data", dir, "-o", "json")
	require.NoError(t, err, out)

	var d description
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 2, d.Languages)
	assert.Equal(t, 5, d.Observations)
	assert.Equal(t, 1300, d.TotalYears)
	require.Len(t, d.Features, 2)
	assert.Equal(t, "Feature F", d.Features[0].Description)
	assert.Len(t, d.Features[0].Codes, 3)
}

func TestExportCommand_GeoJSON(t *testing.T) {
	dir := writeFixture(t)
	path := filepath.Join(t.TempDir(), "slice.geojson")

	out, err := runCLI(t, "export", "--data", dir, "--feature", "F", "--date", "300", "--out", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 languages")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
	assert.Contains(t, string(data), "mixed")
}

func TestExportCommand_SQLite(t *testing.T) {
	dir := writeFixture(t)
	path := filepath.Join(t.TempDir(), "snapshots.db")

	out, err := runCLI(t, "export", "--data", dir, "--feature", "F", "--date", "300", "--format", "sqlite", "--out", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "snapshot")
	assert.FileExists(t, path)
}

func TestExportCommand_MatrixFormatRejected(t *testing.T) {
	dir := writeFixture(t)

	_, err := runCLI(t, "export", "--data", dir, "--feature", "F", "--date", "300", "--format", "csv",
		"--out", filepath.Join(t.TempDir(), "x.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep --matrix")
}

func TestSnapshotsCommands(t *testing.T) {
	dir := writeFixture(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	for _, date := range []string{"100", "300"} {
		_, err := runCLI(t, "export", "--data", dir, "--feature", "F", "--date", date, "--format", "sqlite", "--out", db)
		require.NoError(t, err)
	}
	_, err := runCLI(t, "export", "--data", dir, "--feature", "G", "--date", "100", "--format", "sqlite", "--out", db)
	require.NoError(t, err)

	out, err := runCLI(t, "snapshots", "list", "--db", db, "--feature", "F", "-o", "json")
	require.NoError(t, err, out)
	var snaps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 2)
	for _, s := range snaps {
		assert.Equal(t, "F", s["feature"])
	}

	var id string
	for _, s := range snaps {
		if s["date"] == 300.0 {
			id = s["id"].(string)
		}
	}
	require.NotEmpty(t, id)

	out, err = runCLI(t, "snapshots", "show", id, "--db", db, "-o", "json")
	require.NoError(t, err, out)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0]["language_id"])
	assert.Equal(t, "mixed", rows[0]["code"])
	assert.Equal(t, 11.0, rows[0]["latitude"])
	assert.Equal(t, 21.0, rows[0]["longitude"])

	out, err = runCLI(t, "snapshots", "list", "--db", db, "--limit", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "LANGUAGES")
}

func TestSnapshotsShow_Unknown(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, err := runCLI(t, "snapshots", "show", "nope", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no snapshot "nope"`)
}
