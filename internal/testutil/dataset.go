// Package testutil builds small in-memory datasets for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/ingest"
	"github.com/sells-group/littel/internal/model"
)

// Obs is shorthand for an observation without derived columns.
func Obs(lang, feat string, date int, value float64) model.Observation {
	return model.Observation{LanguageID: lang, FeatureID: feat, Date: date, Value: value}
}

// Lang is shorthand for a language with a range and no coordinates.
func Lang(id, parent string, earliest, latest int) model.Language {
	return model.Language{
		ID:       id,
		Name:     id,
		ParentID: parent,
		Earliest: earliest,
		Latest:   latest,
		Floruit:  (earliest + latest) / 2,
	}
}

// Dataset builds a Dataset from languages and observations, failing the test
// on error.
func Dataset(t *testing.T, langs []model.Language, obs []model.Observation) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Build(&ingest.Normalized{
		Languages:    langs,
		Observations: obs,
	}, dataset.Options{})
	require.NoError(t, err)
	return ds
}

// Scenario returns the two-language lineage used across analysis tests:
// root A attested -500..250 and daughter B (parent A) attested 200..800.
// A observes F=0 at -500 and F=1 at 400; B observes F=1 at 500.
func Scenario(t *testing.T) *dataset.Dataset {
	t.Helper()
	a := Lang("A", "", -500, 250)
	a.Name = "Alpha"
	a.Latitude, a.Longitude = model.Some(10), model.Some(20)
	b := Lang("B", "A", 200, 800)
	b.Name = "Beta"
	b.Latitude, b.Longitude = model.Some(11), model.Some(21)
	return Dataset(t, []model.Language{a, b}, []model.Observation{
		Obs("A", "F", -500, 0),
		Obs("A", "F", 400, 1),
		Obs("B", "F", 500, 1),
	})
}
