// Package changelog summarises feature changes along language lineages:
// amounts, rates, directional symmetry and the temporal proximity of other
// changes.
package changelog

import (
	"sort"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/model"
)

// Key identifies a kind of change.
type Key struct {
	Feature   string          `json:"feature" yaml:"feature"`
	Direction model.Direction `json:"direction" yaml:"direction"`
}

// Correlations maps a kind of change to its smallest temporal distance from
// the changes under study.
type Correlations map[Key]int

// merge keeps the smaller distance per key.
func (c Correlations) merge(other Correlations) {
	for k, d := range other {
		if cur, ok := c[k]; !ok || d < cur {
			c[k] = d
		}
	}
}

// Sorted returns the entries by ascending distance, ties by feature then
// direction.
func (c Correlations) Sorted() []Correlation {
	out := make([]Correlation, 0, len(c))
	for k, d := range c {
		out = append(out, Correlation{Key: k, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Feature != b.Feature {
			return a.Feature < b.Feature
		}
		return a.Direction < b.Direction
	})
	return out
}

// Correlation is one entry of Correlations in list form.
type Correlation struct {
	Key      `yaml:",inline"`
	Distance int `json:"distance" yaml:"distance"`
}

// TimeLineage is the change history of one language. Current holds the
// language's own changes; past adds the changes of all its ancestors and is
// ordered by date.
type TimeLineage struct {
	language string
	current  []model.Observation
	past     []model.Observation
	duration model.Value
}

// NewTimeLineage collects the changes of lang and its ancestors.
func NewTimeLineage(ds *dataset.Dataset, lang string) *TimeLineage {
	t := &TimeLineage{
		language: lang,
		current:  ds.Store.ChangesFor(lang),
		duration: ds.Lineage.Duration(lang),
	}
	t.past = append(t.past, t.current...)
	for _, a := range ds.Lineage.Ancestors(lang) {
		t.past = append(t.past, ds.Store.ChangesFor(a.ID)...)
	}
	sort.SliceStable(t.past, func(i, j int) bool { return t.past[i].Date < t.past[j].Date })
	return t
}

// Language returns the language ID.
func (t *TimeLineage) Language() string { return t.language }

// Duration returns the length of the language's attested range.
func (t *TimeLineage) Duration() model.Value { return t.duration }

// Increments returns the language's own increments of feat in date order.
func (t *TimeLineage) Increments(feat string) []float64 {
	var out []float64
	for _, o := range t.current {
		if o.FeatureID == feat {
			out = append(out, o.Increment)
		}
	}
	return out
}

// IncrementsIn returns the language's own increments of feat that go in
// direction dir.
func (t *TimeLineage) IncrementsIn(feat string, dir model.Direction) []float64 {
	var out []float64
	for _, inc := range t.Increments(feat) {
		if dir.Matches(inc) {
			out = append(out, inc)
		}
	}
	return out
}

// Changes returns the dates of the language's own changes of feat in
// direction dir.
func (t *TimeLineage) Changes(feat string, dir model.Direction) []int {
	var out []int
	for _, o := range t.current {
		if o.FeatureID == feat && o.Direction == dir {
			out = append(out, o.Date)
		}
	}
	return out
}

// Correlations returns, for every kind of change in the ancestor-inclusive
// history dated at or before date, its smallest distance to date.
func (t *TimeLineage) Correlations(date int) Correlations {
	out := make(Correlations)
	for _, o := range t.past {
		if o.Date > date {
			break
		}
		k := Key{Feature: o.FeatureID, Direction: o.Direction}
		d := date - o.Date
		if cur, ok := out[k]; !ok || d < cur {
			out[k] = d
		}
	}
	return out
}

// ChangeCorrelations merges Correlations over every change of feat in
// direction dir, keeping the smallest distance per kind of change.
func (t *TimeLineage) ChangeCorrelations(feat string, dir model.Direction) Correlations {
	out := make(Correlations)
	for _, date := range t.Changes(feat, dir) {
		out.merge(t.Correlations(date))
	}
	return out
}
