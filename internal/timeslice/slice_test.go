package timeslice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/littel/internal/lineage"
	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/testutil"
)

func TestNew_InheritsParentValueBeforeFirstObservation(t *testing.T) {
	ds := testutil.Scenario(t)

	s := New(ds, "F", 300)

	assert.Equal(t, []string{"B"}, s.Languages(), "A's range ends at 250")
	assert.Equal(t, 0.5, s.Value("B").Or(-1), "mean of A's value as of 300 (0) and B's 1 at 500")

	e := s.Entries()[0]
	assert.Equal(t, MethodInterpolate, e.Method)
	assert.True(t, e.Inherited)
	assert.Equal(t, lineage.Attested, e.Attested)
}

func TestNew_ExactMatchBypassesAveraging(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{testutil.Lang("A", "", -1000, 1000)},
		[]model.Observation{
			testutil.Obs("A", "F", -500, 0),
			testutil.Obs("A", "F", 0, 1),
			testutil.Obs("A", "F", 500, 0),
		})

	s := New(ds, "F", 0)
	assert.Equal(t, 1.0, s.Value("A").Or(-1))
	assert.Equal(t, MethodExact, s.Entries()[0].Method)
}

func TestNew_FallbackOrder(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{testutil.Lang("A", "", -1000, 1000)},
		[]model.Observation{
			testutil.Obs("A", "F", -500, 0),
			testutil.Obs("A", "F", 500, 1),
		})

	tests := []struct {
		name   string
		date   int
		want   float64
		method Method
	}{
		{"between", 0, 0.5, MethodInterpolate},
		{"only after", -800, 0, MethodAfter},
		{"only before", 800, 1, MethodBefore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(ds, "F", tt.date)
			require.Equal(t, 1, s.Len())
			assert.Equal(t, tt.want, s.Value("A").Or(-1))
			assert.Equal(t, tt.method, s.Entries()[0].Method)
			assert.False(t, s.Entries()[0].Inherited)
		})
	}
}

func TestNew_RangeBounds(t *testing.T) {
	ds := testutil.Scenario(t)

	assert.Equal(t, 0, New(ds, "F", -500).Len(), "earliest bound is exclusive")
	s := New(ds, "F", 250)
	assert.Equal(t, 0.5, s.Value("A").Or(-1), "latest bound is inclusive")
	assert.True(t, s.Value("B").IsMissing(), "B starts after its parent's latest date")
}

func TestNew_DuplicateDatesLastWins(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{testutil.Lang("A", "", -1000, 1000)},
		[]model.Observation{
			testutil.Obs("A", "F", 0, 0),
			testutil.Obs("A", "F", 0, 1),
			testutil.Obs("A", "F", 100, 0),
			testutil.Obs("A", "F", 100, 1),
		})

	assert.Equal(t, 1.0, New(ds, "F", 0).Value("A").Or(-1))
	assert.Equal(t, 1.0, New(ds, "F", 50).Value("A").Or(-1))
}

func TestNew_UnknownFeature(t *testing.T) {
	ds := testutil.Scenario(t)
	s := New(ds, "nope", 300)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Values())
}

func TestNames_MarkUnattested(t *testing.T) {
	a := testutil.Lang("A", "", -500, 250)
	c := testutil.Lang("C", "A", 600, 900)
	c.Name = "Gamma"
	ds := testutil.Dataset(t, []model.Language{a, c}, []model.Observation{
		testutil.Obs("A", "F", -500, 0),
		testutil.Obs("C", "F", 700, 1),
	})

	s := New(ds, "F", 300)
	assert.Equal(t, []string{"*Gamma"}, s.Names(model.Missing()))

	s = New(ds, "F", 300, WithMarker("~"))
	assert.Equal(t, []string{"~Gamma"}, s.Names(model.Missing()))

	s = New(ds, "F", 800)
	assert.Equal(t, []string{"Gamma"}, s.Names(model.Missing()))
}

func TestSubsetAccessors(t *testing.T) {
	ds := testutil.Dataset(t,
		[]model.Language{
			func() model.Language {
				l := testutil.Lang("A", "", -1000, 1000)
				l.Latitude, l.Longitude = model.Some(1), model.Some(2)
				return l
			}(),
			func() model.Language {
				l := testutil.Lang("B", "", -1000, 1000)
				l.Latitude = model.Some(3)
				return l
			}(),
			testutil.Lang("C", "", -1000, 1000),
		},
		[]model.Observation{
			testutil.Obs("A", "F", 0, 0),
			testutil.Obs("B", "F", 0, 1),
			testutil.Obs("C", "F", -100, 0),
			testutil.Obs("C", "F", 100, 1),
		})

	s := New(ds, "F", 0)
	assert.Equal(t, []float64{0, 0.5, 1}, s.DistinctValues())

	assert.Len(t, s.Latitudes(model.Missing()), 3)
	assert.Equal(t, []model.Value{model.Some(1)}, s.Latitudes(model.Some(0)))
	assert.Equal(t, []model.Value{model.Some(2)}, s.Longitudes(model.Some(0)))
	assert.Equal(t, []string{"B"}, s.Names(model.Some(1)))
	assert.Equal(t, []string{"C"}, s.Names(model.Some(0.5)))

	lon := s.Longitudes(model.Some(1))
	require.Len(t, lon, 1)
	assert.True(t, lon[0].IsMissing(), "missing coordinates stay missing")

	labels := s.Labels(model.Missing())
	require.Len(t, labels, 3)
	assert.Equal(t, "A", labels[0].Name)
	assert.Equal(t, 2.0, labels[0].Longitude.Or(0))
	assert.Equal(t, 1.0, labels[0].Latitude.Or(0))
}

func TestMatrixColumn(t *testing.T) {
	ds := testutil.Scenario(t)

	col := New(ds, "F", 300).MatrixColumn()
	require.Len(t, col, 2)
	assert.True(t, col[0].IsMissing(), "A")
	assert.Equal(t, 0.5, col[1].Or(-1), "B")
}

func TestDates(t *testing.T) {
	assert.Equal(t, []int{-200, -100, 0, 100}, Dates(-200, 100, 100))
	assert.Equal(t, []int{0}, Dates(0, 0, 10))
	assert.Nil(t, Dates(0, 100, 0))
	assert.Nil(t, Dates(100, 0, 10))
}

func TestSweep(t *testing.T) {
	ds := testutil.Scenario(t)

	dates := Dates(-400, 700, 100)
	slices, err := Sweep(context.Background(), ds, "F", dates, 3)
	require.NoError(t, err)
	require.Len(t, slices, len(dates))

	for i, s := range slices {
		assert.Equal(t, dates[i], s.Date(), "results keep date order")
		assert.Equal(t, New(ds, "F", dates[i]).Values(), s.Values())
	}
}

func TestSweep_Cancelled(t *testing.T) {
	ds := testutil.Scenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, ds, "F", Dates(0, 100, 10), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep cancelled")
}
