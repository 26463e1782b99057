// Package timeslice estimates, for one feature at one date, the value of
// every language that has observations of that feature.
package timeslice

import (
	"sort"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/lineage"
	"github.com/sells-group/littel/internal/model"
)

// DefaultMarker prefixes the names of languages not attested at the slice date.
const DefaultMarker = "*"

// Method records how an entry's value was obtained.
type Method string

const (
	MethodExact       Method = "exact"       // observation at the slice date
	MethodInterpolate Method = "interpolate" // mean of the surrounding values
	MethodBefore      Method = "before"      // only a preceding value
	MethodAfter       Method = "after"       // only a following value
)

// Entry is the estimate for one language.
type Entry struct {
	LanguageID string              `json:"language_id" yaml:"language_id"`
	Value      float64             `json:"value" yaml:"value"`
	Method     Method              `json:"method" yaml:"method"`
	Inherited  bool                `json:"inherited" yaml:"inherited"` // preceding value taken from the parent
	Attested   lineage.Attestation `json:"-" yaml:"-"`
}

// Option configures a Slice.
type Option func(*Slice)

// WithMarker sets the prefix for names of languages unattested at the date.
func WithMarker(m string) Option {
	return func(s *Slice) {
		s.marker = m
	}
}

// Slice is the set of best-estimate values of one feature at one date.
type Slice struct {
	ds      *dataset.Dataset
	feature string
	date    int
	marker  string
	entries []Entry // ordered by language ID
	byLang  map[string]int
}

// New computes the slice of feat at date. For every language with an
// observation of feat whose attested range contains date:
//  1. an observation exactly at date is used as is;
//  2. otherwise the nearest values strictly before and after date are found,
//     and a missing preceding value is replaced by the direct parent's last
//     value of feat dated at or before date;
//  3. both values present are averaged, otherwise the one present is used;
//  4. with neither, the language is left out.
func New(ds *dataset.Dataset, feat string, date int, opts ...Option) *Slice {
	s := &Slice{
		ds:      ds,
		feature: feat,
		date:    date,
		marker:  DefaultMarker,
		byLang:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, lang := range ds.Store.Languages(feat) {
		span, ok := ds.Lineage.AttestedRange(lang)
		if !ok || !span.Contains(date) {
			continue
		}
		e, ok := s.estimate(lang)
		if !ok {
			continue
		}
		e.Attested = ds.Lineage.IsAttested(lang, date)
		s.byLang[lang] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

func (s *Slice) estimate(lang string) (Entry, bool) {
	e := Entry{LanguageID: lang}

	// Rows are date-ordered; on duplicate dates the last row wins.
	var exact, before, after model.Value
	afterDate := 0
	for _, o := range s.ds.Store.Values(lang, s.feature) {
		switch {
		case o.Date == s.date:
			exact = model.Some(o.Value)
		case o.Date < s.date:
			before = model.Some(o.Value)
		case after.IsMissing() || o.Date == afterDate:
			after, afterDate = model.Some(o.Value), o.Date
		}
	}

	if v, ok := exact.Get(); ok {
		e.Value, e.Method = v, MethodExact
		return e, true
	}

	if before.IsMissing() {
		if parent := s.ds.Lineage.ParentID(lang); parent != "" {
			before = s.ds.Store.LastValueAsOf(parent, s.feature, s.date)
			e.Inherited = !before.IsMissing()
		}
	}

	if v, ok := model.Mean(before, after).Get(); ok {
		e.Value, e.Method = v, MethodInterpolate
		return e, true
	}
	if v, ok := after.Get(); ok {
		e.Value, e.Method = v, MethodAfter
		return e, true
	}
	if v, ok := before.Get(); ok {
		e.Value, e.Method = v, MethodBefore
		return e, true
	}
	return Entry{}, false
}

// Feature returns the feature ID of the slice.
func (s *Slice) Feature() string { return s.feature }

// Date returns the slice date.
func (s *Slice) Date() int { return s.date }

// Len returns the number of languages with an estimate.
func (s *Slice) Len() int { return len(s.entries) }

// Entries returns the estimates in language ID order.
func (s *Slice) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Value returns the estimate for lang; missing when lang was left out.
func (s *Slice) Value(lang string) model.Value {
	i, ok := s.byLang[lang]
	if !ok {
		return model.Missing()
	}
	return model.Some(s.entries[i].Value)
}

// Inherited reports whether the estimate for lang used its parent's value.
func (s *Slice) Inherited(lang string) bool {
	i, ok := s.byLang[lang]
	return ok && s.entries[i].Inherited
}

// Values returns the estimates keyed by language ID.
func (s *Slice) Values() map[string]float64 {
	out := make(map[string]float64, len(s.entries))
	for _, e := range s.entries {
		out[e.LanguageID] = e.Value
	}
	return out
}

// Languages returns the IDs of the languages in the slice, in ID order.
func (s *Slice) Languages() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.LanguageID
	}
	return out
}

// selected returns the entries whose value equals subset, or all entries
// when subset is missing.
func (s *Slice) selected(subset model.Value) []Entry {
	want, filter := subset.Get()
	if !filter {
		return s.entries
	}
	var out []Entry
	for _, e := range s.entries {
		if e.Value == want {
			out = append(out, e)
		}
	}
	return out
}

// Latitudes returns the latitudes of the selected languages.
func (s *Slice) Latitudes(subset model.Value) []model.Value {
	sel := s.selected(subset)
	out := make([]model.Value, len(sel))
	for i, e := range sel {
		out[i] = s.ds.Registry.Latitude(e.LanguageID)
	}
	return out
}

// Longitudes returns the longitudes of the selected languages.
func (s *Slice) Longitudes(subset model.Value) []model.Value {
	sel := s.selected(subset)
	out := make([]model.Value, len(sel))
	for i, e := range sel {
		out[i] = s.ds.Registry.Longitude(e.LanguageID)
	}
	return out
}

// Names returns the display names of the selected languages. A language
// not itself attested at the slice date gets the marker prefix.
func (s *Slice) Names(subset model.Value) []string {
	sel := s.selected(subset)
	out := make([]string, len(sel))
	for i, e := range sel {
		out[i] = s.displayName(e)
	}
	return out
}

func (s *Slice) displayName(e Entry) string {
	name := s.ds.Registry.Name(e.LanguageID)
	if e.Attested == lineage.Unattested {
		name = s.marker + name
	}
	return name
}

// Label is a map annotation for one language.
type Label struct {
	LanguageID string      `json:"language_id" yaml:"language_id"`
	Longitude  model.Value `json:"longitude" yaml:"longitude"`
	Latitude   model.Value `json:"latitude" yaml:"latitude"`
	Name       string      `json:"name" yaml:"name"`
	Value      float64     `json:"value" yaml:"value"`
	Inherited  bool        `json:"inherited" yaml:"inherited"`
}

// Labels returns position, display name and value of the selected languages.
func (s *Slice) Labels(subset model.Value) []Label {
	sel := s.selected(subset)
	out := make([]Label, len(sel))
	for i, e := range sel {
		out[i] = Label{
			LanguageID: e.LanguageID,
			Longitude:  s.ds.Registry.Longitude(e.LanguageID),
			Latitude:   s.ds.Registry.Latitude(e.LanguageID),
			Name:       s.displayName(e),
			Value:      e.Value,
			Inherited:  e.Inherited,
		}
	}
	return out
}

// DistinctValues returns the distinct estimated values in ascending order,
// e.g. to split a map into value groups.
func (s *Slice) DistinctValues() []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, e := range s.entries {
		if !seen[e.Value] {
			seen[e.Value] = true
			out = append(out, e.Value)
		}
	}
	sort.Float64s(out)
	return out
}

// MatrixColumn returns one value per registered language in ID order,
// missing where the language is not in the slice.
func (s *Slice) MatrixColumn() []model.Value {
	ids := s.ds.Registry.IDs()
	out := make([]model.Value, len(ids))
	for i, id := range ids {
		out[i] = s.Value(id)
	}
	return out
}
