package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/testutil"
)

// history returns root R with changes of G and F, and daughter C (parent R)
// with changes of H.
//
//	R: G+ at 10; F+ at 15, F- at 20, F+ at 22
//	C: H+ at 50
func history(t *testing.T) *dataset.Dataset {
	t.Helper()
	return testutil.Dataset(t,
		[]model.Language{
			testutil.Lang("R", "", 0, 30),
			testutil.Lang("C", "R", 30, 60),
		},
		[]model.Observation{
			testutil.Obs("R", "G", 0, 0),
			testutil.Obs("R", "G", 10, 1),
			testutil.Obs("R", "F", 0, 0),
			testutil.Obs("R", "F", 15, 1),
			testutil.Obs("R", "F", 20, 0),
			testutil.Obs("R", "F", 22, 1),
			testutil.Obs("C", "H", 40, 0),
			testutil.Obs("C", "H", 50, 1),
		})
}

func TestTimeLineage_Increments(t *testing.T) {
	tl := NewTimeLineage(history(t), "R")

	assert.Equal(t, []float64{1, -1, 1}, tl.Increments("F"))
	assert.Equal(t, []float64{-1}, tl.IncrementsIn("F", model.Decrease))
	assert.Equal(t, []float64{1, 1}, tl.IncrementsIn("F", model.Increase))
	assert.Empty(t, tl.Increments("H"), "own changes only")
	assert.Equal(t, []int{15, 22}, tl.Changes("F", model.Increase))
	assert.Equal(t, 30.0, tl.Duration().Or(0))
}

func TestTimeLineage_CorrelationsAtDate(t *testing.T) {
	tl := NewTimeLineage(history(t), "R")

	got := tl.Correlations(15)
	assert.Equal(t, Correlations{
		{Feature: "G", Direction: model.Increase}: 5,
		{Feature: "F", Direction: model.Increase}: 0,
	}, got, "later changes are ignored")
}

func TestTimeLineage_ChangeCorrelationsKeepsMinimum(t *testing.T) {
	tl := NewTimeLineage(history(t), "R")

	// G+ is 5 years before F+ at 15 and 12 years before F+ at 22.
	got := tl.ChangeCorrelations("F", model.Increase)
	assert.Equal(t, 5, got[Key{"G", model.Increase}])
	assert.Equal(t, 2, got[Key{"F", model.Decrease}])
	assert.Equal(t, 0, got[Key{"F", model.Increase}])
	assert.Len(t, got, 3)
}

func TestTimeLineage_CorrelationsIncludeAncestors(t *testing.T) {
	tl := NewTimeLineage(history(t), "C")

	got := tl.ChangeCorrelations("H", model.Increase)
	assert.Equal(t, Correlations{
		{Feature: "H", Direction: model.Increase}: 0,
		{Feature: "F", Direction: model.Increase}: 28,
		{Feature: "F", Direction: model.Decrease}: 30,
		{Feature: "G", Direction: model.Increase}: 40,
	}, got)
}

func TestCorrelations_Sorted(t *testing.T) {
	c := Correlations{
		{Feature: "B", Direction: model.Increase}: 3,
		{Feature: "A", Direction: model.Increase}: 3,
		{Feature: "A", Direction: model.Decrease}: 3,
		{Feature: "Z", Direction: model.Decrease}: 1,
	}
	got := c.Sorted()
	require.Len(t, got, 4)
	assert.Equal(t, "Z", got[0].Feature)
	assert.Equal(t, Key{"A", model.Decrease}, got[1].Key)
	assert.Equal(t, Key{"A", model.Increase}, got[2].Key)
	assert.Equal(t, "B", got[3].Feature)
}

// rateFixture gives X the increments [2, -1, 3] over a 2000-year range.
func rateFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	return testutil.Dataset(t,
		[]model.Language{testutil.Lang("X", "", 0, 2000)},
		[]model.Observation{
			testutil.Obs("X", "F", 0, 0),
			testutil.Obs("X", "F", 100, 2),
			testutil.Obs("X", "F", 200, 1),
			testutil.Obs("X", "F", 300, 4),
		})
}

func TestForLanguage_Rate(t *testing.T) {
	l := ForLanguage(rateFixture(t), "F", "X")

	assert.Equal(t, []float64{2, -1, 3}, l.Increments())
	assert.Equal(t, 6.0, l.Amount())
	assert.Equal(t, 3.0, l.Rate().Or(-1))
	assert.Equal(t, 0.67, l.Symmetry().Or(-1))
	assert.Equal(t, 200.0, l.AverageDate().Or(-1))
}

func TestForLanguage_RateRoundsToFivePlaces(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{testutil.Lang("X", "", 0, 3000)},
		[]model.Observation{
			testutil.Obs("X", "F", 0, 0),
			testutil.Obs("X", "F", 10, 1),
		})
	assert.Equal(t, 0.33333, ForLanguage(ds, "F", "X").Rate().Or(-1))
}

func TestForLanguage_ZeroDurationIsMissing(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{testutil.Lang("X", "", 100, 100)},
		[]model.Observation{
			testutil.Obs("X", "F", 0, 0),
			testutil.Obs("X", "F", 100, 1),
		})
	l := ForLanguage(ds, "F", "X")
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Rate().IsMissing())
}

func TestForLanguage_UnknownLanguage(t *testing.T) {
	l := ForLanguage(rateFixture(t), "F", "nope")
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Rate().IsMissing())
	assert.True(t, l.Symmetry().IsMissing())
	assert.True(t, l.AverageDate().IsMissing())
}

func TestSymmetry(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   model.Value
	}{
		{"balanced", []float64{0, 1, 0}, model.Some(0)},
		{"one way up", []float64{0, 1, 3}, model.Some(1)},
		{"one way down", []float64{3, 1, 0}, model.Some(1)},
		{"skewed", []float64{0, 3, 2}, model.Some(0.5)},
		{"no changes", []float64{1, 1}, model.Missing()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := make([]model.Observation, len(tt.values))
			for i, v := range tt.values {
				obs[i] = testutil.Obs("X", "F", i*10, v)
			}
			ds := testutil.Dataset(t, []model.Language{testutil.Lang("X", "", 0, 1000)}, obs)

			got := ForLanguage(ds, "F", "X").Symmetry()
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			if v, ok := got.Get(); ok {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}
}

func TestDirectionality_ReturnsFilteredCopy(t *testing.T) {
	l := ForLanguage(rateFixture(t), "F", "X")

	up := l.Directionality(model.Increase)
	assert.Equal(t, []float64{2, 3}, up.Increments())
	assert.Equal(t, 2.5, up.Rate().Or(-1))
	assert.Equal(t, 1.0, up.Symmetry().Or(-1))

	down := l.Directionality(model.Decrease)
	assert.Equal(t, []float64{-1}, down.Increments())

	assert.Equal(t, 3, l.Len(), "source log is unchanged")
}

func TestForAll_PrependsParentTerminalValue(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{
			testutil.Lang("A", "", 0, 200),
			testutil.Lang("B", "A", 300, 600),
		},
		[]model.Observation{
			testutil.Obs("A", "F", 0, 0),
			testutil.Obs("A", "F", 100, 1),
			testutil.Obs("B", "F", 500, 0),
		})

	l := ForAll(ds, "F")
	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{LanguageID: "A", Date: 100, Value: 1, Increment: 1, Direction: model.Increase}, entries[0])
	assert.Equal(t, Entry{LanguageID: "B", Date: 500, Value: 0, Increment: -1, Direction: model.Decrease}, entries[1])

	// A spans 200 years; B spans (200, 600].
	assert.Equal(t, 600.0, l.Duration().Or(0))
	assert.Equal(t, 3.33333, l.Rate().Or(-1))
	assert.Equal(t, 0.0, l.Symmetry().Or(-1))
	assert.Equal(t, "", l.Language())
}

func TestForAll_Scenario(t *testing.T) {
	l := ForAll(testutil.Scenario(t), "F")

	assert.Equal(t, []float64{1}, l.Increments(), "B matches A's terminal value")
	assert.Equal(t, 1300.0, l.Duration().Or(0))
	assert.Equal(t, 0.76923, l.Rate().Or(-1))
}

func TestLog_Correlations(t *testing.T) {
	ds := history(t)

	own := ForLanguage(ds, "H", "C").Correlations(model.Increase)
	assert.Equal(t, 40, own[Key{"G", model.Increase}])

	pooled := ForAll(ds, "F").Correlations(model.Increase)
	assert.Equal(t, NewTimeLineage(ds, "R").ChangeCorrelations("F", model.Increase), pooled)
}

func TestSummarize(t *testing.T) {
	s := ForLanguage(rateFixture(t), "F", "X").Summarize()

	assert.Equal(t, "F", s.Feature)
	assert.Equal(t, "X", s.Language)
	assert.Equal(t, 3, s.Changes)
	assert.Equal(t, 2, s.Increases)
	assert.Equal(t, 1, s.Decreases)
	assert.Equal(t, []string{"X"}, s.Languages)
	assert.Equal(t, 3.0, s.Rate.Or(-1))
}
